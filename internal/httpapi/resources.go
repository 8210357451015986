package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/proxy"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func (h Handlers) GetEscalations(c *gin.Context) {
	resp, err := h.Escalations.List(c.Request.Context(), credentialsOf(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	passThrough(c, resp)
}

func (h Handlers) GetTheme(c *gin.Context) {
	th, err := h.Themes.Get(c.Request.Context(), credentialsOf(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, th)
}

type saveThemeRequest struct {
	MainColor string `json:"mainColor" binding:"required,iscolor"`
}

func (h Handlers) SaveTheme(c *gin.Context) {
	var req saveThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &ve) && ve[0].Tag() == "required":
			abortMessage(c, http.StatusBadRequest, proxy.ErrMainColorRequired.Error())
		case errors.As(err, &ve):
			abortMessage(c, http.StatusBadRequest, "mainColor must be a color")
		default:
			abortMessage(c, http.StatusBadRequest, "invalid json")
		}
		return
	}

	creds := credentialsOf(c)
	release, err := h.acquireWrite(c, creds.TenantID, "theme")
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer release()

	if err := h.Themes.Save(c.Request.Context(), creds, proxy.Theme{MainColor: req.MainColor}); err != nil {
		h.writeError(c, err)
		return
	}
	h.record(c, creds.TenantID, audit.EventThemeSaved, req.MainColor)
	c.JSON(http.StatusOK, gin.H{"message": "Theme saved successfully"})
}

func (h Handlers) ListFiles(c *gin.Context) {
	resp, err := h.Files.List(c.Request.Context(), credentialsOf(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	passThrough(c, resp)
}

const errNoFile = "No file uploaded"

// IngestDocs reads the upload fully and forwards its bytes. A multipart body
// contributes its "file" part; any other body is forwarded as-is.
func (h Handlers) IngestDocs(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	var (
		up  proxy.Upload
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		up, err = readMultipartUpload(c)
	} else {
		up, err = readRawUpload(c)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			abortMessage(c, http.StatusRequestEntityTooLarge, "File is too large")
		case errors.Is(err, http.ErrMissingFile):
			abortMessage(c, http.StatusBadRequest, errNoFile)
		default:
			abortMessage(c, http.StatusBadRequest, "invalid upload")
		}
		return
	}

	creds := credentialsOf(c)
	resp, err := h.Files.Ingest(c.Request.Context(), creds, up)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.record(c, creds.TenantID, audit.EventDocumentsIngested, up.Filename)
	passThrough(c, resp)
}

func readMultipartUpload(c *gin.Context) (proxy.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return proxy.Upload{}, err
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (proxy.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return proxy.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return proxy.Upload{}, err
	}
	return proxy.Upload{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func readRawUpload(c *gin.Context) (proxy.Upload, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return proxy.Upload{}, err
	}
	if len(data) == 0 {
		return proxy.Upload{}, http.ErrMissingFile
	}
	return proxy.Upload{
		Filename:    c.GetHeader(proxy.HeaderFileName),
		ContentType: c.GetHeader("Content-Type"),
		Data:        data,
	}, nil
}

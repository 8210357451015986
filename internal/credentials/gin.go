package credentials

import "github.com/gin-gonic/gin"

const ginKey = "credentials"

// Middleware attaches a CookieStore for the current request to the gin context.
func Middleware(opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ginKey, Store(NewCookieStore(c.Writer, c.Request, opts)))
		c.Next()
	}
}

// FromGin returns the request's Store. Without Middleware in the chain a
// default CookieStore is attached on first use.
func FromGin(c *gin.Context) Store {
	if v, ok := c.Get(ginKey); ok {
		if s, ok := v.(Store); ok && s != nil {
			return s
		}
	}
	s := NewCookieStore(c.Writer, c.Request, CookieOptions{})
	c.Set(ginKey, Store(s))
	return s
}

package middleware

import (
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
)

// LocaleDetector picks a locale for a request.
type LocaleDetector interface {
	Detect(c *gin.Context) i18n.Locale
}

// DetectLocale adapts an i18n.Detector to gin.
type DetectLocale struct {
	Detector *i18n.Detector
}

func (d DetectLocale) Detect(c *gin.Context) i18n.Locale {
	return d.Detector.Detect(c.Request, "", c.ClientIP())
}

// LocaleMiddleware stores the detected locale for handlers and later middleware.
func LocaleMiddleware(d LocaleDetector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxLocale, d.Detect(c))
		c.Next()
	}
}

// SetLocale overrides the request locale, e.g. from a JSON body field.
func SetLocale(c *gin.Context, l i18n.Locale) {
	c.Set(ctxLocale, l)
}

// Locale returns the request locale, or the default when none was detected.
func Locale(c *gin.Context) i18n.Locale {
	if v, ok := c.Get(ctxLocale); ok {
		if l, ok := v.(i18n.Locale); ok {
			return l
		}
	}
	return i18n.Default
}

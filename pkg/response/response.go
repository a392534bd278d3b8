package response

import (
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status        int         `json:"status"`
	Timestamp     time.Time   `json:"timestamp"`
	RequestID     string      `json:"request_id"`
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	Data          T           `json:"data,omitempty"`
	Meta          interface{} `json:"meta,omitempty"`
	Error         interface{} `json:"error,omitempty"`
	Notifications interface{} `json:"notifications,omitempty"`
	Redirect      interface{} `json:"redirect,omitempty"`
}

// Extras are the UI hints carried next to the payload.
type Extras struct {
	Notifications interface{}
	Redirect      interface{}
}

type Option func(*Extras)

// WithNotifications attaches transient user messages; empty values are dropped.
func WithNotifications(n interface{}) Option {
	return func(e *Extras) {
		if !isEmpty(n) {
			e.Notifications = n
		}
	}
}

// WithRedirect tells the client which screen to show next; nil is dropped.
func WithRedirect(r interface{}) Option {
	return func(e *Extras) {
		if !isEmpty(r) {
			e.Redirect = r
		}
	}
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	case reflect.Slice:
		return rv.Len() == 0
	}
	return false
}

func extras(opts []Option) Extras {
	var e Extras
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}, opts ...Option) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	e := extras(opts)
	resp := APIResponse[T]{
		Status:        status,
		Timestamp:     time.Now(),
		RequestID:     ctx.GetString("request_id"),
		Success:       true,
		Message:       message,
		Data:          data,
		Meta:          meta,
		Notifications: e.Notifications,
		Redirect:      e.Redirect,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and returns it. It does not abort the chain;
// middleware should call ctx.Abort afterwards.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}, opts ...Option) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	e := extras(opts)
	resp := APIResponse[T]{
		Status:        status,
		Timestamp:     time.Now(),
		RequestID:     ctx.GetString("request_id"),
		Success:       false,
		Message:       message,
		Error:         err,
		Notifications: e.Notifications,
		Redirect:      e.Redirect,
	}
	ctx.JSON(status, resp)
	return resp
}

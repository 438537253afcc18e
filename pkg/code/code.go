package code

import (
	"fmt"
	"net/http"
)

// Code is a registered response code. Error codes carry status=false,
// success codes status=true. Handlers decorate a Clone with data/details
// before sending it through pkg/app.
type Code struct {
	code        int
	status      bool
	msg         string
	data        interface{}
	haveData    bool
	details     []string
	haveDetails bool
}

var codes = map[int]string{}

// NewError registers an error code. Registering the same code twice is a
// programming mistake and panics at init time.
func NewError(code int, msg string) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("code %d already exists, pick another one", code))
	}
	codes[code] = msg
	return &Code{code: code, status: false, msg: msg}
}

var sussCodes = map[int]string{}

// NewSuss registers a success code.
func NewSuss(code int, msg string) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("success code %d already exists, pick another one", code))
	}
	sussCodes[code] = msg
	return &Code{code: code, status: true, msg: msg}
}

// Clone returns a copy so decorated fields never leak between requests.
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		msg:    e.msg,
	}
}

func (e *Code) Error() string {
	return fmt.Sprintf("code = %d, msg = %s", e.code, e.msg)
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.msg
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

// WithData attaches response data, returning a decorated clone.
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.data = data
	c.haveData = true
	return c
}

// WithDetails attaches human-readable detail strings, returning a decorated clone.
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.details = details
	c.haveDetails = true
	return c
}

// StatusCode maps a registered code to its HTTP status.
func (e *Code) StatusCode() int {
	switch e.code {
	case Success.Code(), SuccessCreate.Code(), SuccessUpdate.Code(), SuccessDelete.Code():
		return http.StatusOK
	case ServerError.Code():
		return http.StatusInternalServerError
	case ErrorInvalidParams.Code():
		return http.StatusBadRequest
	case ErrorNotFound.Code(), ErrorScheduleNotFound.Code(), ErrorProviderNotFound.Code(),
		ErrorJobNotFound.Code(), ErrorBackupNotFound.Code():
		return http.StatusNotFound
	case ErrorTooManyRequests.Code():
		return http.StatusTooManyRequests
	}
	return http.StatusOK
}

package response

import "github.com/gin-gonic/gin"

// Envelope is the wire shape of every API response:
// {status: "success"|"fail", token?, results?, data?, message?}
type Envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: "success", Data: data})
}

// SuccessWithToken is used by the auth flows: the session token rides in
// the body alongside the jwt cookie.
func SuccessWithToken(c *gin.Context, status int, token string, data any) {
	c.JSON(status, Envelope{Status: "success", Token: token, Data: data})
}

// List adds a result count, mirroring what clients expect on collection endpoints.
func List(c *gin.Context, status int, results int, data any) {
	c.JSON(status, Envelope{Status: "success", Results: &results, Data: data})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Status: "success", Message: msg})
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Status: "fail", Message: msg})
}

// AbortFail ends middleware chains with a fail envelope.
func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Status: "fail", Message: msg})
}

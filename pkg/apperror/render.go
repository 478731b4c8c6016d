package apperror

import (
	"github.com/sirupsen/logrus"
)

// Renderer decides how much of a classified error crosses the external
// boundary. In development everything is returned for debugging; in
// production only operational errors keep their precise message, while
// unknown errors are logged server-side and replaced with a generic one.
type Renderer struct {
	Env    string
	Logger *logrus.Logger
}

// Render classifies err and returns the HTTP status, the message safe to
// send and an optional detail payload for the response body.
func (r Renderer) Render(err error) (status int, message string, detail interface{}) {
	e := Classify(err)

	if r.Env == "development" {
		var d interface{}
		if e.Err != nil {
			d = e.Err.Error()
		}
		return e.Status(), e.Message, map[string]interface{}{
			"kind":  string(e.Kind),
			"cause": d,
		}
	}

	if e.Operational() {
		return e.Status(), e.Message, nil
	}

	if r.Logger != nil {
		r.Logger.WithError(e.Err).WithField("kind", string(e.Kind)).Error("unhandled error")
	}
	return e.Status(), "Something went very wrong!", nil
}

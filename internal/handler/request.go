package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// uploadField is the multipart form field uploads are read from.
const uploadField = "file"

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads the request body into v. Unknown fields are rejected so
// typos surface as 422 rather than silently dropped values.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// readUpload returns the uploaded document: the "file" part of a multipart
// form, or the raw body for any other content type.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, _, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, fmt.Errorf("multipart field %q is required", uploadField)
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	if r.Body == nil {
		return nil, errEmptyBody
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	return data, nil
}

// writeRequestError answers 413 for oversized bodies and 422 otherwise.
func writeRequestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	badRequest(w, err.Error())
}

// optionalQuery binds an optional form-style query parameter, returning def
// when it is absent.
func optionalQuery(q url.Values, name, def string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return "", err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

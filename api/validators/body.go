package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
)

// maxBodyBytes caps dashboard payloads; the largest is a product with its image list.
const maxBodyBytes = 1 << 20

var (
	// 04xx mobile or 02xx landline, with or without the +58 prefix.
	vePhoneRe = regexp.MustCompile(`^(?:\+?58|0)?(?:2\d{2}|4(?:12|14|16|24|26))\d{7}$`)
	// cédula or RIF: 12345678, V-12345678, J-12345678-9.
	veIDRe          = regexp.MustCompile(`^(?:[VEJPG]-?)?\d{6,9}(?:-?\d)?$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

	errBodyTooLarge = errors.New("request body too large")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	must(v.RegisterValidation("ve_phone", func(fl validator.FieldLevel) bool {
		return IsVenezuelanPhone(fl.Field().String())
	}))
	must(v.RegisterValidation("ve_id", func(fl validator.FieldLevel) bool {
		return IsVenezuelanID(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// IsVenezuelanPhone accepts local and +58 numbers, ignoring separators.
func IsVenezuelanPhone(value string) bool {
	return vePhoneRe.MatchString(phoneSeparators.Replace(strings.TrimSpace(value)))
}

// IsVenezuelanID accepts cédula and RIF numbers in either case.
func IsVenezuelanID(value string) bool {
	id := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), ".", ""))
	return veIDRe.MatchString(id)
}

// DecodeJSONBody decodes a single JSON object into dest and validates it.
func DecodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return bodyError(errors.New("empty body"), "request body is required", nil)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(&cappedReader{r: r.Body, left: maxBodyBytes})
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeError(err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return bodyError(errors.New("trailing data"), "request body must contain a single JSON object", nil)
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// cappedReader fails once more than left bytes are read.
type cappedReader struct {
	r    io.Reader
	left int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left <= 0 {
		return 0, errBodyTooLarge
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	return n, err
}

func decodeError(err error) *pkgerrors.Error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, errBodyTooLarge):
		return bodyError(err, "request body too large", map[string]any{"max_bytes": maxBodyBytes})
	case errors.Is(err, io.EOF):
		return bodyError(err, "request body is required", nil)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return bodyError(err, "invalid request body", map[string]any{"error": "truncated JSON"})
	case errors.As(err, &syntaxErr):
		return bodyError(err, "invalid request body", map[string]any{"error": err.Error(), "offset": syntaxErr.Offset})
	case errors.As(err, &typeErr):
		return bodyError(err, "invalid request body", map[string]any{
			typeErr.Field: fmt.Sprintf("must be %s", typeErr.Type.String()),
		})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return bodyError(err, "invalid request body", map[string]any{field: "is not allowed"})
	}
	return bodyError(err, "invalid request body", map[string]any{"error": err.Error()})
}

func bodyError(err error, message string, details map[string]any) *pkgerrors.Error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	if details != nil {
		wrapped = wrapped.WithDetails(details)
	}
	return wrapped
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldPath(fieldErr)] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// fieldPath drops the root struct name: "items[0].quantity", not "createOrderRequest.items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "ve_phone":
		return "must be a Venezuelan phone number"
	case "ve_id":
		return "must be a cédula or RIF such as V-12345678"
	}
	return "is invalid"
}

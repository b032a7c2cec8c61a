package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/jobtracker/pkg/models"
)

// maxBodyBytes caps request bodies for create and update.
const maxBodyBytes = 1 << 20

//go:embed application.schema.json
var applicationSchemaJSON []byte

var (
	applicationSchema = mustSchema(applicationSchemaJSON)
	validate          = newValidator()
)

// applicationRequest is the body of create and update. Optional fields that
// are absent or null decode to the empty string. Status and date only need
// to be present, so an empty status is a valid label.
type applicationRequest struct {
	CompanyName string  `json:"companyName" validate:"required,max=100"`
	JobTitle    string  `json:"jobTitle" validate:"required,max=100"`
	Status      *string `json:"status" validate:"required,max=50"`
	Date        *string `json:"date" validate:"required,isodate"`
	JobLink     string  `json:"jobLink" validate:"max=200"`
	Notes       string  `json:"notes"`
}

func (req *applicationRequest) toModel(id int64) (*models.JobApplication, error) {
	date, err := models.ParseDate(*req.Date)
	if err != nil {
		return nil, &ValidationError{Kind: KindMalformedDate, Field: "date", Msg: err.Error()}
	}

	return &models.JobApplication{
		ID:          id,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		Status:      *req.Status,
		Date:        date,
		JobLink:     req.JobLink,
		Notes:       req.Notes,
	}, nil
}

func mustSchema(b []byte) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		panic(fmt.Sprintf("compile application schema: %v", err))
	}
	return rs
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("isodate", validateISODate); err != nil {
		panic(fmt.Sprintf("register isodate: %v", err))
	}
	return v
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// decodeApplication reads and validates a create/update body. The raw JSON
// is checked against the embedded schema first, so unknown properties and
// non-string values never reach the typed decode.
func decodeApplication(w http.ResponseWriter, r *http.Request, id int64) (*models.JobApplication, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &ValidationError{Kind: KindInvalidBody, Msg: "request body too large"}
		}
		return nil, &ValidationError{Kind: KindInvalidBody, Msg: "unreadable request body"}
	}

	keyErrs, err := applicationSchema.ValidateBytes(r.Context(), body)
	if err != nil {
		return nil, &ValidationError{Kind: KindInvalidBody, Msg: "request body must be a JSON object"}
	}
	if len(keyErrs) > 0 {
		ke := keyErrs[0]
		return nil, &ValidationError{
			Kind:  KindInvalidBody,
			Field: strings.TrimPrefix(ke.PropertyPath, "/"),
			Msg:   ke.Message,
		}
	}

	var req applicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Kind: KindInvalidBody, Msg: "request body must be a JSON object"}
	}

	if err := validate.Struct(&req); err != nil {
		return nil, fromValidator(err)
	}

	return req.toModel(id)
}

// fromValidator reports the first failing field in declaration order.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Kind: KindInvalidBody, Msg: err.Error()}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Kind: KindMissingField, Field: fe.Field(), Msg: "is required"}
	case "max":
		return &ValidationError{Kind: KindTooLong, Field: fe.Field(), Msg: fmt.Sprintf("must be at most %s characters", fe.Param())}
	case "isodate":
		return &ValidationError{Kind: KindMalformedDate, Field: fe.Field(), Msg: fmt.Sprintf("%q is not an ISO-8601 date", fe.Value())}
	default:
		return &ValidationError{Kind: KindInvalidBody, Field: fe.Field(), Msg: fe.Error()}
	}
}

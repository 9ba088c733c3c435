package generation

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/toneelevate/tonesmith/pkg/domain"
)

// Output formats
const (
	FormatRawText  = "Raw Text"
	FormatMarkdown = "Markdown"
)

// Output lengths
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// DefaultMaxInputLength caps userInput, in characters
const DefaultMaxInputLength = 8192

// DefaultContexts are the message destinations accepted by default
var DefaultContexts = []string{
	"Documentation", "Email", "General Text", "GitHub Comment",
	"LinkedIn Post", "Teams Chat", "Text Message",
}

// OutputFormats lists the accepted output formats
var OutputFormats = []string{FormatRawText, FormatMarkdown}

// OutputLengths lists the accepted output lengths
var OutputLengths = []string{LengthShort, LengthMedium, LengthLong}

// GenerationRequest is a validated generation request
type GenerationRequest struct {
	UserInput    string `json:"userInput" validate:"required,input_length"`
	Context      string `json:"context" validate:"required,context"`
	OutputFormat string `json:"outputFormat" validate:"required,output_format"`
	OutputLength string `json:"outputLength" validate:"omitempty,output_length"`
}

// requestFields are decoded in this order; it is also the order errors are reported in
var requestFields = []string{"userInput", "context", "outputFormat", "outputLength"}

// Validator turns raw request bodies into GenerationRequests
type Validator struct {
	validate       *validator.Validate
	contexts       []string
	maxInputLength int
}

// NewValidator creates a validator for the given contexts and input limit
func NewValidator(contexts []string, maxInputLength int) *Validator {
	if len(contexts) == 0 {
		contexts = DefaultContexts
	}
	if maxInputLength <= 0 {
		maxInputLength = DefaultMaxInputLength
	}

	v := &Validator{
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		contexts:       slices.Clone(contexts),
		maxInputLength: maxInputLength,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v.validate, "context", oneOf(v.contexts))
	mustRegister(v.validate, "output_format", oneOf(OutputFormats))
	mustRegister(v.validate, "output_length", oneOf(OutputLengths))
	mustRegister(v.validate, "input_length", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= v.maxInputLength
	})

	return v
}

// Contexts returns the accepted contexts
func (v *Validator) Contexts() []string {
	return slices.Clone(v.contexts)
}

// Validate decodes body and checks every field. It has no side effects.
func (v *Validator) Validate(body []byte) (GenerationRequest, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return GenerationRequest{}, domain.NewValidationError("Request body must be a JSON object")
	}

	values := make(map[string]string, len(requestFields))
	for _, name := range requestFields {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return GenerationRequest{}, domain.NewInvalidTypeError(name)
		}
		values[name] = s
	}

	req := GenerationRequest{
		UserInput:    values["userInput"],
		Context:      values["context"],
		OutputFormat: values["outputFormat"],
		OutputLength: values["outputLength"],
	}

	if err := v.validate.Struct(req); err != nil {
		return GenerationRequest{}, v.translate(req, err)
	}

	if req.OutputLength == "" {
		req.OutputLength = LengthMedium
	}
	return req, nil
}

// translate picks the highest-precedence failure: missing fields, then enums
// in field order, then input length.
func (v *Validator) translate(req GenerationRequest, err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewValidationError("Invalid request")
	}

	var missing []string
	var enumErr, lengthErr error
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "context":
			if enumErr == nil {
				enumErr = domain.NewInvalidEnumError(fe.Field(), req.Context, v.contexts)
			}
		case "output_format":
			if enumErr == nil {
				enumErr = domain.NewInvalidEnumError(fe.Field(), req.OutputFormat, OutputFormats)
			}
		case "output_length":
			if enumErr == nil {
				enumErr = domain.NewInvalidEnumError(fe.Field(), req.OutputLength, OutputLengths)
			}
		case "input_length":
			lengthErr = domain.NewPayloadTooLargeError(v.maxInputLength)
		}
	}

	switch {
	case len(missing) > 0:
		return domain.NewMissingFieldError(missing...)
	case enumErr != nil:
		return enumErr
	case lengthErr != nil:
		return lengthErr
	}
	return domain.NewValidationError("Invalid request")
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

package validator_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/orderserver/pkg/httpx"
	pkgvalidator "github.com/ghuser/orderserver/pkg/validator"
)

type lineReq struct {
	ItemID   int64 `json:"itemId"   validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"gt=0"`
}

type orderReq struct {
	CustomerName  string    `json:"customerName"  validate:"required,max=255"`
	CustomerEmail string    `json:"customerEmail" validate:"required,email"`
	Price         *float64  `json:"price"         validate:"omitempty,gte=0"`
	Lines         []lineReq `json:"lines"         validate:"required,min=1,dive"`
}

func validOrder() orderReq {
	return orderReq{
		CustomerName:  "A",
		CustomerEmail: "a@x.io",
		Lines:         []lineReq{{ItemID: 1, Quantity: 2}},
	}
}

func TestValidate_valid(t *testing.T) {
	req := validOrder()
	if err := pkgvalidator.Validate(&req); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name  string
		mut   func(r *orderReq)
		field string
		want  string
	}{
		{"missing name", func(r *orderReq) { r.CustomerName = "" }, "customerName", "This field is required"},
		{"bad email", func(r *orderReq) { r.CustomerEmail = "nope" }, "customerEmail", "Must be a valid email address"},
		{"negative price", func(r *orderReq) { r.Price = &negative }, "price", "Must be greater than or equal to 0"},
		{"empty lines", func(r *orderReq) { r.Lines = []lineReq{} }, "lines", "Must contain at least 1 entries"},
		{"zero quantity", func(r *orderReq) { r.Lines[0].Quantity = 0 }, "lines[0].quantity", "Must be greater than 0"},
		{"name too long", func(r *orderReq) { r.CustomerName = strings.Repeat("x", 256) }, "customerName", "Maximum length is 255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrder()
			tt.mut(&req)
			got := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&req))
			if got[tt.field] != tt.want {
				t.Errorf("field %q: got %q, want %q (all: %v)", tt.field, got[tt.field], tt.want, got)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	if m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie); len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"customerName":"A","customerEmail":"a@x.io","lines":[{"itemId":1,"quantity":2}]}`
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[orderReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if !ok {
		t.Fatalf("expected ok=true. Response: %s", w.Body.String())
	}
	if req.Lines[0].Quantity != 2 {
		t.Errorf("unexpected quantity: %d", req.Lines[0].Quantity)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	_, ok := pkgvalidator.ValidateRequest[orderReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json")))

	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("expected 'Invalid JSON' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_validationFailureIs400(t *testing.T) {
	w := httptest.NewRecorder()
	_, ok := pkgvalidator.ValidateRequest[orderReq](w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customerName":"A"}`)))

	if ok {
		t.Fatal("expected ok=false")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Validation failed" {
		t.Errorf("error: got %q", body.Error)
	}
	if _, ok := body.Fields["customerEmail"]; !ok {
		t.Errorf("expected customerEmail in fields: %v", body.Fields)
	}
}

func TestValidateRequest_bodyTooLarge(t *testing.T) {
	var status int
	h := httpx.RequestBodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = pkgvalidator.ValidateRequest[orderReq](w, r)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customerName":"`+strings.Repeat("x", 64)+`"}`)))
	status = rr.Code

	if status != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", status)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/labecommerce/catalog-api/internal/domain/product"
	"github.com/labecommerce/catalog-api/internal/domain/purchase"
	"github.com/labecommerce/catalog-api/internal/domain/user"
	"github.com/labecommerce/catalog-api/internal/validate"
)

const unexpectedError = "Erro inesperado"

// respondMessage writes a {"message": ...} body with the given status.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst. A wrong-typed field is
// reported with the caller's localized message for that field, looked up by
// the field's JSON name; any other malformed body yields a generic 400.
func decodeJSON(r *http.Request, dst any, typeMsgs map[string]string) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// An absent body behaves like {}: every field stays unset.
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if i := strings.LastIndexByte(field, '.'); i >= 0 {
				field = field[i+1:]
			}
			if msg, ok := typeMsgs[field]; ok {
				return validate.Fail(field, msg)
			}
		}
		return validate.Fail("body", "O body precisa ser um JSON válido")
	}
	return nil
}

// respondError maps a domain or validation error onto its HTTP status and
// sends the error message as the body. Anything outside the known taxonomy
// is logged and hidden behind a generic 500.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		fieldErr    *validate.FieldError
		notFoundErr *purchase.ProductNotFoundError
		quantityErr *purchase.InvalidQuantityError
	)

	switch {
	case errors.As(err, &fieldErr),
		errors.As(err, &quantityErr),
		errors.Is(err, user.ErrDuplicateID),
		errors.Is(err, user.ErrDuplicateEmail),
		errors.Is(err, product.ErrDuplicateID),
		errors.Is(err, product.ErrDuplicateName),
		errors.Is(err, purchase.ErrDuplicateID),
		errors.Is(err, purchase.ErrMissingFields),
		errors.Is(err, purchase.ErrEmptyItems),
		errors.Is(err, purchase.ErrDuplicateItems):
		respondMessage(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &notFoundErr),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, purchase.ErrNotFound),
		errors.Is(err, purchase.ErrBuyerNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())

	default:
		zctx.From(ctx).Error("Request failed", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, unexpectedError)
	}
}

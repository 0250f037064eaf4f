package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const problemContentType = "application/problem+json"

// problem — ответ об ошибке в формате RFC 7807 с полями code и message.
type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

var problemTitles = map[domain.Kind]string{
	domain.KindInvalidInput:   "Invalid Input",
	domain.KindDuplicateOrder: "Duplicate Order",
	domain.KindOrderNotFound:  "Order Not Found",
	domain.KindUnavailable:    "Service Unavailable",
	domain.KindInternal:       "Internal Server Error",
}

// problemFor строит ответ по виду ошибки: ошибки клиента дают 400, остальные 500.
func problemFor(err error, instance string) problem {
	kind := domain.KindOf(err)

	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case kind.ClientCaused():
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrLockTimeout):
		message = domain.ErrLockTimeout.Error()
	case kind == domain.KindUnavailable:
		message = domain.ErrStoreUnavailable.Error()
	}

	title, ok := problemTitles[kind]
	if !ok {
		title = problemTitles[domain.KindInternal]
	}

	return problem{
		Type:     "/problems/" + string(kind),
		Title:    title,
		Status:   status,
		Detail:   message,
		Instance: instance,
		Code:     string(kind),
		Message:  message,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

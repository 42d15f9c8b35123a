package proxy

import "fmt"

// MessageKey identifies a user-facing message.
type MessageKey int

// Message keys.
const (
	MsgGatewayTimeout MessageKey = iota
	MsgSetupError
	MsgNotConfigured
	MsgInvalidRequest
	MsgBodyTooLarge
	MsgRateLimited
	MsgInternalError
	MsgNotFound
	MsgMethodNotAllowed
)

// DefaultLocale is used when an unknown locale is requested.
const DefaultLocale = "fr"

var catalogs = map[string]map[MessageKey]string{
	"fr": {
		MsgGatewayTimeout:   "Le backend n'a pas répondu dans le délai imparti.",
		MsgSetupError:       "Erreur lors de la configuration de la requête proxy.",
		MsgNotConfigured:    "Erreur de configuration du proxy : aucun backend n'est défini.",
		MsgInvalidRequest:   "Requête invalide : un objet JSON avec un champ « message » est attendu.",
		MsgBodyTooLarge:     "Le message est trop volumineux.",
		MsgRateLimited:      "Trop de requêtes. Veuillez réessayer dans un instant.",
		MsgInternalError:    "Une erreur interne est survenue. Veuillez réessayer plus tard.",
		MsgNotFound:         "Ressource introuvable.",
		MsgMethodNotAllowed: "Méthode non autorisée.",
	},
	"en": {
		MsgGatewayTimeout:   "The backend did not respond in time.",
		MsgSetupError:       "Error while setting up the proxy request.",
		MsgNotConfigured:    "Proxy configuration error: no backend is configured.",
		MsgInvalidRequest:   "Invalid request: expected a JSON object with a \"message\" field.",
		MsgBodyTooLarge:     "The message is too large.",
		MsgRateLimited:      "Too many requests. Please try again shortly.",
		MsgInternalError:    "An internal error occurred. Please try again later.",
		MsgNotFound:         "Resource not found.",
		MsgMethodNotAllowed: "Method not allowed.",
	},
}

// Messages is a catalog of user-facing texts for one locale.
// It is immutable and safe for concurrent use.
type Messages struct {
	locale string
	texts  map[MessageKey]string
}

// NewMessages returns the catalog for locale, or an error when the locale is
// not supported.
func NewMessages(locale string) (*Messages, error) {
	texts, ok := catalogs[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return &Messages{locale: locale, texts: texts}, nil
}

// MessagesFor is like NewMessages but falls back to DefaultLocale.
func MessagesFor(locale string) *Messages {
	m, err := NewMessages(locale)
	if err != nil {
		m, _ = NewMessages(DefaultLocale)
	}
	return m
}

// Locale returns the catalog's locale.
func (m *Messages) Locale() string {
	return m.locale
}

// Get returns the text for key.
func (m *Messages) Get(key MessageKey) string {
	return m.texts[key]
}

// BackendError is the aiMessage for an upstream answer the relay does not
// pass through. It is not localized.
func BackendError(status int) string {
	return fmt.Sprintf("Error from backend: %d", status)
}

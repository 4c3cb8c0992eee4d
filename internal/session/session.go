// Package session keeps the logged-in identity of each client server-side.
// The client only holds a signed cookie naming its session record.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harentsoaR/hospital-api/internal/utils"
)

// Role is the capability a guard checks for.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Identity is the resolved caller of a guarded request.
type Identity struct {
	Role     Role
	Username string
}

// Data holds one independent marker per role. The admin marker is a flag,
// the doctor and patient markers hold the logged-in username.
type Data struct {
	Admin   bool   `json:"admin,omitempty"`
	Doctor  string `json:"doctor,omitempty"`
	Patient string `json:"patient,omitempty"`
}

func (d Data) Empty() bool {
	return !d.Admin && d.Doctor == "" && d.Patient == ""
}

// Identity reports the caller for role if its marker is set.
func (d Data) Identity(role Role) (Identity, bool) {
	switch role {
	case RoleAdmin:
		if d.Admin {
			return Identity{Role: RoleAdmin, Username: "admin"}, true
		}
	case RoleDoctor:
		if d.Doctor != "" {
			return Identity{Role: RoleDoctor, Username: d.Doctor}, true
		}
	case RolePatient:
		if d.Patient != "" {
			return Identity{Role: RolePatient, Username: d.Patient}, true
		}
	}
	return Identity{}, false
}

func (d *Data) Grant(role Role, username string) {
	switch role {
	case RoleAdmin:
		d.Admin = true
	case RoleDoctor:
		d.Doctor = username
	case RolePatient:
		d.Patient = username
	}
}

func (d *Data) Revoke(role Role) {
	switch role {
	case RoleAdmin:
		d.Admin = false
	case RoleDoctor:
		d.Doctor = ""
	case RolePatient:
		d.Patient = ""
	}
}

// Session is a loaded session. A zero ID means nothing is stored yet.
type Session struct {
	ID   string
	Data Data
}

// Store persists session data by id.
type Store interface {
	Load(ctx context.Context, id string) (Data, bool, error)
	Save(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager moves sessions between the cookie and the store.
type Manager struct {
	store  Store
	signer *utils.TokenSigner
	opts   Options
}

func NewManager(store Store, signer *utils.TokenSigner, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{store: store, signer: signer, opts: opts}
}

// Load resolves the request's session. A missing, forged, expired or
// unknown cookie yields an empty session rather than an error.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}, nil
	}
	id, err := m.signer.Parse(cookie.Value)
	if err != nil {
		return &Session{}, nil
	}
	data, ok, err := m.store.Load(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return &Session{}, nil
	}
	return &Session{ID: id, Data: data}, nil
}

// Renew moves s to a fresh id so a pre-login cookie cannot be reused.
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("drop previous session: %w", err)
		}
	}
	s.ID = uuid.NewString()
	return nil
}

// Save writes s to the store and refreshes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := m.store.Save(ctx, s.ID, s.Data, m.opts.TTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	token, err := m.signer.Sign(s.ID, m.opts.TTL)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the session record and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	s.ID = ""
	s.Data = Data{}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Ping checks the backing store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

package auth

import (
	"errors"
	"sort"
	"sync"
)

// User is a faculty or HOD account. Passwords are plaintext in-memory state,
// matching the rest of the catalog; this registry is an identity source, not
// a credential vault.
type User struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Blocked    bool   `json:"blocked,omitempty"`
}

var (
	// ErrBadCredentials is returned for an unknown email or wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrBlocked is returned when a blocked faculty member tries to log in.
	ErrBlocked = errors.New("account is blocked")
	// ErrDuplicateEmail is returned when registering an email twice.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrUserNotFound is returned for operations on unknown emails.
	ErrUserNotFound = errors.New("user not found")
)

// Registry is the in-memory user store.
type Registry struct {
	mu        sync.RWMutex
	users     map[string]User
	passwords map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:     make(map[string]User),
		passwords: make(map[string]string),
	}
}

// Add registers a user; the email must be new.
func (r *Registry) Add(u User, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Email]; ok {
		return ErrDuplicateEmail
	}
	r.users[u.Email] = u
	r.passwords[u.Email] = password
	return nil
}

// Authenticate checks the credentials and returns the user.
func (r *Registry) Authenticate(email, password string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok || r.passwords[email] != password {
		return User{}, ErrBadCredentials
	}
	if u.Blocked {
		return User{}, ErrBlocked
	}
	return u, nil
}

// Get returns the user for an email.
func (r *Registry) Get(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// FacultyForDepartment lists the department's faculty (HOD excluded), sorted
// by name.
func (r *Registry) FacultyForDepartment(department string) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []User
	for _, u := range r.users {
		if u.Department == department && u.Role == RoleFaculty {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetBlocked blocks or unblocks a faculty account.
func (r *Registry) SetBlocked(email string, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return ErrUserNotFound
	}
	u.Blocked = blocked
	r.users[email] = u
	return nil
}

// Delete removes a faculty account.
func (r *Registry) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, email)
	delete(r.passwords, email)
	return nil
}

package transport

import (
	"net/mail"
	"strings"

	"github.com/chenterphai/releasehub/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)
	if r.Role != "" && r.Role != models.RoleAdmin && r.Role != models.RoleUser {
		errs["role"] = "Role must be either admin or user."
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)
	return errs
}

type AuthUserData struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Website   *string `json:"website"`
	Facebook  *string `json:"facebook"`
	Instagram *string `json:"instagram"`
	LinkedIn  *string `json:"linkedin"`
	X         *string `json:"x"`
	GitHub    *string `json:"github"`
	YouTube   *string `json:"youtube"`
}

func (r *UpdateUserRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Email != nil {
		validateEmail(errs, *r.Email)
	}
	if r.Username != nil {
		username := strings.TrimSpace(*r.Username)
		if username == "" {
			errs["username"] = "Username is required."
		} else if len(username) > 20 {
			errs["username"] = "Username must be less than 20 chars."
		}
	}
	return errs
}

type CreateReleaseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

func (r *CreateReleaseRequest) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "Title is required."
	} else if len(r.Title) > 200 {
		errs["title"] = "Title must be less than 200 chars."
	}
	if strings.TrimSpace(r.Description) == "" {
		errs["description"] = "Description is required."
	}
	if len(r.Tags) == 0 {
		errs["tags"] = "Tags is required."
	}
	if r.Status != "" && r.Status != models.ReleasePublic && r.Status != models.ReleasePrivate {
		errs["status"] = "Status is invalid."
	}
	return errs
}

type UpdateReleaseRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status"`
}

func (r *UpdateReleaseRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Title != nil && len(*r.Title) > 200 {
		errs["title"] = "Title must be less than 200 chars."
	}
	if r.Status != nil && *r.Status != models.ReleasePublic && *r.Status != models.ReleasePrivate {
		errs["status"] = "Status is invalid."
	}
	return errs
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

func validateEmail(errs map[string]string, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "Email is required."
		return
	}
	if len(email) > 50 {
		errs["email"] = "Email must be less than 50 chars."
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Invalid email address."
	}
}

func validatePassword(errs map[string]string, password string) {
	if password == "" {
		errs["password"] = "Password is required."
		return
	}
	if len(password) < 6 {
		errs["password"] = "Password must be at least 6 chars long."
	}
}

package validation

import (
	"regexp"
	"strings"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// ValidateRegister validates a new user's credentials.
// Usernames are 3-50 characters of letters, digits, '_', '.' or '-';
// passwords are 8-128 characters.
func ValidateRegister(req request.CredentialsRequest) (model.UserInsert, error) {
	errs := make(map[string]string)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs["username"] = "username is required"
	} else if !usernamePattern.MatchString(username) {
		errs["username"] = "username must be 3-50 characters of letters, digits, '_', '.' or '-'"
	}

	switch {
	case req.Password == "":
		errs["password"] = "password is required"
	case len(req.Password) < 8:
		errs["password"] = "password must be at least 8 characters"
	case len(req.Password) > 128:
		errs["password"] = "password must be 128 characters or less"
	}

	if err := result(errs); err != nil {
		return model.UserInsert{}, err
	}
	return model.UserInsert{Username: username, Password: req.Password}, nil
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(req request.CredentialsRequest) (model.UserInsert, error) {
	errs := make(map[string]string)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs["username"] = "username is required"
	}
	if req.Password == "" {
		errs["password"] = "password is required"
	}

	if err := result(errs); err != nil {
		return model.UserInsert{}, err
	}
	return model.UserInsert{Username: username, Password: req.Password}, nil
}

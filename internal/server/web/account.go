package web

import (
	"errors"

	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/server/session"
)

// RegisterForm обрабатывает GET /register
func (h *Handler) RegisterForm(req *request) error {
	return h.show(req, pageRegister, pageData{Title: "Register"})
}

// Register обрабатывает POST /register
func (h *Handler) Register(req *request) error {
	form, err := req.parseForm()
	if err != nil {
		req.sess.AddFlash(session.FlashDanger, "An error occurred during registration")
		return h.redirect(req, "/register")
	}

	in := service.RegisterInput{
		Username:            form.Get("username"),
		Email:               form.Get("email"),
		Password:            form.Get("password"),
		ConfirmPassword:     form.Get("confirm_password"),
		RequireConfirmation: true,
	}

	_, err = h.accounts.Register(req.r.Context(), in)

	var (
		ve *service.ValidationError
		de *service.DuplicateIdentityError
	)
	switch {
	case err == nil:
		req.sess.AddFlash(session.FlashSuccess, "User registered successfully!")
		return h.redirect(req, "/login")
	case errors.As(err, &ve) && ve.Field == service.FieldConfirmPassword && in.ConfirmPassword != "":
		req.sess.AddFlash(session.FlashDanger, ve.Message)
		return h.redirect(req, "/register")
	case errors.As(err, &ve):
		return h.show(req, pageRegister, pageData{
			Title:  "Register",
			Form:   form,
			Errors: map[string]string{ve.Field: ve.Message},
		})
	case errors.As(err, &de):
		req.sess.AddFlash(session.FlashDanger, de.Error())
		return h.redirect(req, "/register")
	default:
		return h.unexpected(req, err, "An error occurred during registration", "/register")
	}
}

// LoginForm обрабатывает GET /login
func (h *Handler) LoginForm(req *request) error {
	return h.show(req, pageLogin, pageData{Title: "Login"})
}

// Login обрабатывает POST /login.
// Форма принимает только username.
func (h *Handler) Login(req *request) error {
	form, err := req.parseForm()
	if err != nil {
		req.sess.AddFlash(session.FlashDanger, "An error occurred during login")
		return h.redirect(req, "/login")
	}

	errs := make(map[string]string)
	if form.Get("username") == "" {
		errs[service.FieldUsername] = "username is required"
	}
	if form.Get("password") == "" {
		errs[service.FieldPassword] = "password is required"
	}
	if len(errs) > 0 {
		return h.show(req, pageLogin, pageData{Title: "Login", Form: form, Errors: errs})
	}

	result, err := h.accounts.Login(req.r.Context(), service.Credentials{
		Username: form.Get("username"),
		Password: form.Get("password"),
	})
	switch {
	case err == nil:
		if req.sess, err = h.sessions.Renew(req.r.Context(), req.sess); err != nil {
			return err
		}
		req.sess.SetToken(result.Token)
		req.sess.AddFlash(session.FlashSuccess, "Login successful!")
		return h.redirect(req, "/")
	case errors.Is(err, service.ErrInvalidCredentials):
		req.sess.AddFlash(session.FlashDanger, "Invalid username or password")
		return h.show(req, pageLogin, pageData{Title: "Login", Form: form})
	case errors.Is(err, service.ErrValidation):
		errs, _ := fieldErrors(err)
		return h.show(req, pageLogin, pageData{Title: "Login", Form: form, Errors: errs})
	default:
		return h.unexpected(req, err, "An error occurred during login", "/login")
	}
}

// Logout обрабатывает GET /logout
func (h *Handler) Logout(req *request) error {
	h.accounts.Logout(req.sess)

	sess, err := h.sessions.Renew(req.r.Context(), req.sess)
	if err != nil {
		return err
	}
	req.sess = sess
	req.sess.AddFlash(session.FlashSuccess, "Logout successful!")
	return h.redirect(req, "/")
}

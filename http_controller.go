package accounts

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// AuthController serves the self service surface: registration, login, the
// email verification and password reset flows, and the owner-only profile,
// password and avatar edits.
type AuthController struct {
	Debug   bool
	Logger  Logger
	Repo    RepositoryManager
	Auther  Authenticator
	Avatars *AvatarStorage
	Mailer  Mailer
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Avatars == nil {
		c.Avatars = NewAvatarStorage("public/avatar")
	}

	return c
}

func WithRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAvatarStorage(storage *AvatarStorage) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Avatars = storage
		return c
	}
}

func WithMailer(mailer Mailer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Mailer = mailer
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterPayload is the self service sign up body.
type RegisterPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 255)),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(c.Context(), RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
	}); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registro exitoso",
	})
}

// LoginPayload is the login body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	user, token, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":  user.Details(),
		"token": token,
	})
}

// VerifyEmailPayload claims a pending account.
type VerifyEmailPayload struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate will run validation rules
func (r VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 255)),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	payload := new(VerifyEmailPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	verifyEmail := NewVerifyEmailHandler(a.Repo)
	if err := verifyEmail.Execute(c.Context(), VerifyEmailMessage{
		Token:           payload.Token,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Verificación éxitosa, ahora puedes Iniciar Sesión",
	})
}

// ForgotPasswordPayload starts the reset flow.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	initPwdReset := NewInitializePasswordResetHandler(a.Repo, a.Mailer, a.Logger)
	if err := initPwdReset.Execute(c.Context(), InitializePasswordResetMessage{
		Email:  payload.Email,
		Origin: c.Get("Origin"),
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Revisa tu correo electrónico para restablecer tu contraseña",
	})
}

// ResetPasswordPayload completes the reset flow.
type ResetPasswordPayload struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 255)),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	payload := new(ResetPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	finalizePwdReset := NewFinalizePasswordResetHandler(a.Repo)
	if err := finalizePwdReset.Execute(c.Context(), FinalizePasswordResetMessage{
		Token:           payload.Token,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Contraseña restablecida con éxito",
	})
}

// UpdateProfilePayload edits identity fields.
type UpdateProfilePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Validate will run validation rules
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(2, 255)),
		validation.Field(&r.LastName, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Length(6, 255), is.Email),
	)
}

func (a *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := a.sessionOwnedID(c)
	if err != nil {
		return err
	}

	payload := new(UpdateProfilePayload)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	var updated *User
	updateProfile := NewUpdateProfileHandler(a.Repo)
	if err := updateProfile.Execute(c.Context(), UpdateProfileMessage{
		UserID:    userID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		OnResponse: func(user *User) {
			updated = user
		},
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": updated.Details(),
	})
}

// UpdatePasswordPayload changes the credential.
type UpdatePasswordPayload struct {
	OldPassword    string `json:"oldPassword"`
	NewPassword    string `json:"newPassword"`
	RepeatPassword string `json:"repeatPassword"`
}

// Validate will run validation rules
func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 255)),
		validation.Field(&r.RepeatPassword, validation.Required),
	)
}

func (a *AuthController) UpdatePassword(c *fiber.Ctx) error {
	userID, err := a.sessionOwnedID(c)
	if err != nil {
		return err
	}

	payload := new(UpdatePasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	var updated *User
	updatePassword := NewUpdatePasswordHandler(a.Repo)
	if err := updatePassword.Execute(c.Context(), UpdatePasswordMessage{
		UserID:         userID,
		OldPassword:    payload.OldPassword,
		NewPassword:    payload.NewPassword,
		RepeatPassword: payload.RepeatPassword,
		OnResponse: func(user *User) {
			updated = user
		},
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": updated.Details(),
	})
}

func (a *AuthController) UpdateAvatar(c *fiber.Ctx) error {
	userID, err := a.sessionOwnedID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return goerrors.New("No files uploaded", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	fileName := a.Avatars.FileName(userID, file.Filename)
	if err := c.SaveFile(file, a.Avatars.Path(fileName)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store uploaded avatar")
	}

	var updated *User
	previous := ""
	updateAvatar := NewUpdateAvatarHandler(a.Repo)
	if err := updateAvatar.Execute(c.Context(), UpdateAvatarMessage{
		UserID:   userID,
		FileName: fileName,
		OnResponse: func(user *User, prev string) {
			updated = user
			previous = prev
		},
	}); err != nil {
		return err
	}

	if err := a.Avatars.Remove(previous); err != nil {
		a.Logger.Warn("failed to remove stale avatar", "file", previous, "error", err)
	}

	return c.JSON(fiber.Map{
		"user": updated.Details(),
	})
}

// sessionOwnedID parses the :id parameter and checks it names the session's
// own subject. Owning a valid session for someone else's id is still a 403.
func (a *AuthController) sessionOwnedID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := SessionFromCtx(c)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, goerrors.New("invalid user id", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	if claims.UserID() != id.String() {
		return uuid.Nil, ErrInsufficientRole
	}

	return id, nil
}

// UserController serves the admin only user management surface.
type UserController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Mailer Mailer
}

func NewUserController(repo RepositoryManager, mailer Mailer, logger Logger) *UserController {
	if logger == nil {
		logger = defLogger{}
	}
	return &UserController{
		Logger: logger,
		Repo:   repo,
		Mailer: mailer,
	}
}

func (u *UserController) List(c *fiber.Ctx) error {
	users, err := u.Repo.Users().List(c.Context())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}

	details := make([]*UserDetails, 0, len(users))
	for _, user := range users {
		details = append(details, user.Details())
	}

	// clients consume the bare collection
	return c.JSON(details)
}

func (u *UserController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid user id", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := u.Repo.Users().GetByID(c.Context(), id)
	if err != nil {
		if IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}

	return c.JSON(fiber.Map{
		"user": user.Details(),
	})
}

// CreateUserPayload is the admin issued account body.
type CreateUserPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Validate will run validation rules
func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 255), is.Email),
	)
}

func (u *UserController) Create(c *fiber.Ctx) error {
	payload := new(CreateUserPayload)

	if err := c.BodyParser(payload); err != nil {
		return invalidInput(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidInput(err)
	}

	if u.Debug {
		fmt.Println("======= USER CREATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	var created *User
	createUser := NewCreateUserHandler(u.Repo, u.Mailer, u.Logger)
	if err := createUser.Execute(c.Context(), CreateUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		IsAdmin:   payload.IsAdmin,
		Origin:    c.Get("Origin"),
		OnResponse: func(user *User) {
			created = user
		},
	}); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": created.Details(),
	})
}

func (u *UserController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid user id", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	// deleting an id that is already gone still answers 204
	if err := u.Repo.Users().DeleteByID(c.Context(), id); err != nil && !IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

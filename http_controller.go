package voxo

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// AccountsController serves the account endpoints as JSON.
type AccountsController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     *Auther
	ContextKey string
}

type AccountsControllerOption func(*AccountsController) *AccountsController

func NewAccountsController(opts ...AccountsControllerOption) *AccountsController {
	c := &AccountsController{
		Logger:     defLogger{},
		ContextKey: "user",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in accounts controller...")
	}

	if c.Auther == nil {
		panic("Missing Auther in accounts controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *Auther) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Debug = debug
		return c
	}
}

// RegisterAccountRoutes mounts every endpoint. The protected handler guards
// routes that require an authenticated bearer token.
func RegisterAccountRoutes(app *fiber.App, protected fiber.Handler, opts ...AccountsControllerOption) *AccountsController {
	controller := NewAccountsController(opts...)

	app.Post("/signup", controller.Signup)
	app.Post("/login", controller.Login)

	app.Get("/users", controller.UsersIndex)
	app.Get("/users/id/:userId", controller.UserByID)
	app.Get("/users/username/:username", controller.UserByUsername)

	app.Get("/me", protected, controller.Me)

	return controller
}

// Signup handles account creation.
func (a *AccountsController) Signup(c *fiber.Ctx) error {
	payload := new(SignupPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if a.Debug {
		a.Logger.Debug("signup payload: %s", print.MaybePrettyJSON(fiber.Map{
			"username": payload.Username,
		}))
	}

	handler := NewRegisterUserHandler(a.Repo).WithLogger(a.Logger)

	rejection, err := handler.Execute(c.Context(), *payload)
	if err != nil {
		a.Logger.Error("signup execute: %v", err)
		return a.internalError(c, "Error while creating user", err)
	}

	if rejection != nil {
		return c.Status(fiber.StatusForbidden).JSON(rejection)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": MsgUserCreated,
	})
}

// LoginPayload is the request body for credential authentication.
type LoginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// GetIdentifier returns the identifier
func (r LoginPayload) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginPayload) GetPassword() string {
	return r.Password
}

// Login authenticates with the local strategy and returns the user record
// together with a bearer token.
func (a *AccountsController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Login failed",
			"user":    nil,
			"err":     "Failed to parse request body",
		})
	}

	user, token, err := a.Auther.Login(c.Context(), payload.Username, payload.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": richErr.Message,
				"user":    nil,
				"err":     nil,
			})
		}

		a.Logger.Error("login error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Login failed",
			"user":    nil,
			"err":     safeErrorMessage(err),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// UsersIndex returns every account record, password hashes excluded.
func (a *AccountsController) UsersIndex(c *fiber.Ctx) error {
	records, err := a.Repo.Users().List(c.Context())
	if err != nil {
		a.Logger.Error("users index: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error while fetching all users: %s", safeErrorMessage(err)),
		})
	}

	if records == nil {
		records = []*User{}
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

// UserByID looks a record up by its id. Unparseable ids read as a miss.
func (a *AccountsController) UserByID(c *fiber.Ctx) error {
	id := c.Params("userId")

	if _, err := uuid.Parse(id); err != nil {
		return userNotFound(c)
	}

	user, err := a.Repo.Users().GetByID(c.Context(), id)
	if err != nil {
		if errors.IsNotFound(err) {
			return userNotFound(c)
		}
		a.Logger.Error("user by id %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error while fetching user by ID: %s", safeErrorMessage(err)),
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// UserByUsername looks a record up by exact username.
func (a *AccountsController) UserByUsername(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := a.Repo.Users().GetByUsername(c.Context(), username)
	if err != nil {
		if errors.IsNotFound(err) {
			return userNotFound(c)
		}
		a.Logger.Error("user by username: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error while fetching user by username: %s", safeErrorMessage(err)),
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// Me returns the record of the authenticated principal.
func (a *AccountsController) Me(c *fiber.Ctx) error {
	claims, ok := ClaimsFromFiberContext(c, a.ContextKey)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthenticated",
		})
	}

	user, err := a.Repo.Users().GetByID(c.Context(), claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) {
			return userNotFound(c)
		}
		a.Logger.Error("me lookup: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error while fetching user by ID: %s", safeErrorMessage(err)),
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (a *AccountsController) internalError(c *fiber.Ctx, context string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fmt.Sprintf("%s: %s", context, safeErrorMessage(err)),
	})
}

func userNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "User not found",
	})
}

// safeErrorMessage keeps response messages descriptive without ever echoing
// credentials: rich errors expose their message only, anything else gets a
// generic description.
func safeErrorMessage(err error) string {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Message
	}
	return "unexpected error"
}

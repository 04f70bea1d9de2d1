package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/catalog"
	"github.com/cppla/exhibition/middleware"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/utils"
)

// LoginFailedMessage is flashed for any bad username/password pair.
const LoginFailedMessage = "로그인 정보가 올바르지 않습니다."

// AuthController handles the admin login form and logout.
type AuthController struct {
	view
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, directory *catalog.Directory) *AuthController {
	return &AuthController{view: view{directory: directory}, db: db}
}

// LoginForm renders the login page.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	a.render(ctx, http.StatusOK, "login", nil)
}

// Login checks the credentials and signs the admin in.
func (a *AuthController) Login(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")

	var user models.User
	err := a.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		a.serverError(ctx, "load user failed", err)
		return
	}
	if err != nil || !utils.CheckPassword(user.PasswordHash, password) {
		utils.Logger.Info("admin login rejected", zap.String("username", username), zap.String("ip", ctx.ClientIP()))
		state := middleware.CurrentSession(ctx)
		if state != nil {
			state.AddFlash(LoginFailedMessage)
		}
		a.render(ctx, http.StatusOK, "login", nil)
		return
	}

	state := middleware.CurrentSession(ctx)
	if state == nil {
		a.serverError(ctx, "session unavailable", errors.New("no session state"))
		return
	}
	state.SignIn(user.ID, user.Username)
	if err := state.Save(); err != nil {
		a.serverError(ctx, "save session failed", err)
		return
	}
	utils.Logger.Info("admin signed in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	ctx.Redirect(http.StatusFound, "/admin")
}

// Logout clears the whole session and returns to the landing page.
func (a *AuthController) Logout(ctx *gin.Context) {
	if state := middleware.CurrentSession(ctx); state != nil {
		state.SignOut()
		if err := state.Save(); err != nil {
			utils.Logger.Warn("save session failed", zap.Error(err))
		}
	}
	ctx.Redirect(http.StatusFound, "/")
}

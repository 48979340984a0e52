package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/apperr"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/middleware"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/utils"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// ✅ POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Address  string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Tous les champs obligatoires doivent être renseignés"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(req.Email) {
		apperr.Abort(c, apperr.InvalidInput("Adresse e-mail invalide"))
		return
	}
	if !phoneRegex.MatchString(req.Phone) {
		apperr.Abort(c, apperr.InvalidInput("Numéro de téléphone invalide (10 chiffres attendus)"))
		return
	}
	if len(req.Password) < 8 {
		apperr.Abort(c, apperr.InvalidInput("Le mot de passe doit contenir au moins 8 caractères"))
		return
	}

	exists, err := h.users.ExistsByUsernameOrEmail(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'inscription", err))
		return
	}
	if exists {
		apperr.Abort(c, apperr.InvalidInput("Nom d'utilisateur ou e-mail déjà utilisé"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'inscription", err))
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de l'inscription", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Compte créé", "user": user})
}

// ✅ POST /users/login — protégé par le rate-limit Redis
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("E-mail et mot de passe requis"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		middleware.RecordLoginFailure(req.Email)
		apperr.Abort(c, apperr.Unauthorized("Identifiants invalides"))
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		middleware.RecordLoginFailure(req.Email)
		apperr.Abort(c, apperr.Unauthorized("Identifiants invalides"))
		return
	}

	token, err := utils.GenerateUserJWT(*user)
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la connexion", err))
		return
	}

	middleware.ResetLoginAttempts(req.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// ✅ POST /users/logout — le JWT est sans état, rien à invalider côté serveur
func (h *UserHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Déconnecté"})
}

// ✅ GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, apperr.NotFound("Utilisateur introuvable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ✅ PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, apperr.NotFound("Utilisateur introuvable"))
		return
	}

	var req struct {
		Username *string `json:"username"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.InvalidInput("Requête invalide"))
		return
	}

	if req.Username != nil && *req.Username != "" {
		user.Username = *req.Username
	}
	if req.Phone != nil {
		if !phoneRegex.MatchString(*req.Phone) {
			apperr.Abort(c, apperr.InvalidInput("Numéro de téléphone invalide (10 chiffres attendus)"))
			return
		}
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			apperr.Abort(c, apperr.InvalidInput("Le mot de passe doit contenir au moins 8 caractères"))
			return
		}
		hash, herr := utils.HashPassword(*req.Password)
		if herr != nil {
			apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour du profil", herr))
			return
		}
		user.Password = hash
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la mise à jour du profil", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profil mis à jour", "user": user})
}

// ✅ GET /users (admin)
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		apperr.Abort(c, apperr.Internal("Erreur lors de la récupération des utilisateurs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// ✅ GET /users/:id (admin)
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant utilisateur invalide"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Abort(c, apperr.NotFound("Utilisateur introuvable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ✅ DELETE /users/:id (admin)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperr.Abort(c, apperr.InvalidInput("Identifiant utilisateur invalide"))
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			apperr.Abort(c, apperr.NotFound("Utilisateur introuvable"))
			return
		}
		apperr.Abort(c, apperr.Internal("Erreur lors de la suppression de l'utilisateur", err))
		return
	}

	utils.LogAction(c, "user.delete", "user", id.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Utilisateur supprimé"})
}

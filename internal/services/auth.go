package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stockyard-org/stockyard-backend/internal/blacklist"
  "github.com/stockyard-org/stockyard-backend/internal/domainerr"
  "github.com/stockyard-org/stockyard-backend/internal/logger"
  "github.com/stockyard-org/stockyard-backend/internal/normalization"
  "github.com/stockyard-org/stockyard-backend/internal/repos"
  "github.com/stockyard-org/stockyard-backend/internal/requestdata"
  "github.com/stockyard-org/stockyard-backend/internal/types"
  "github.com/stockyard-org/stockyard-backend/internal/utils"
)

var (
  ErrInvalidCredentials = errors.New("invalid credentials")
  ErrAccountInactive    = errors.New("this account is inactive")
  ErrTokenRevoked       = errors.New("token has been revoked")
)

type JWTClaims struct {
  jwt.RegisteredClaims
  Username    string `json:"username,omitempty"`
  IsStaff     bool   `json:"is_staff,omitempty"`
  IsSuperuser bool   `json:"is_superuser,omitempty"`
}

type AuthService interface {
  RegisterClient(ctx context.Context, username, password string) (*types.Client, error)
  Login(ctx context.Context, username, password string) (string, string, error)
  Refresh(ctx context.Context) (string, string, error)
  Logout(ctx context.Context) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

  GetAccessTTL() time.Duration
}

type authService struct {
  db             *gorm.DB
  log            *logger.Logger
  userRepo       repos.UserRepo
  clientRepo     repos.ClientRepo
  userTokenRepo  repos.UserTokenRepo
  revocation     TokenRevocationService
  tokenBlacklist blacklist.Blacklist
  jwtSecretKey   string
  accessTTL      time.Duration
  refreshTTL     time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  clientRepo repos.ClientRepo,
  userTokenRepo repos.UserTokenRepo,
  revocation TokenRevocationService,
  tokenBlacklist blacklist.Blacklist,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:             db,
    log:            serviceLog,
    userRepo:       userRepo,
    clientRepo:     clientRepo,
    userTokenRepo:  userTokenRepo,
    revocation:     revocation,
    tokenBlacklist: tokenBlacklist,
    jwtSecretKey:   jwtSecretKey,
    accessTTL:      accessTTL,
    refreshTTL:     refreshTTL,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// RegisterClient
//----------------------------------------------------------------------------------------------------------------------

// RegisterClient creates the backing user and the client row as one logical
// operation: if either half fails nothing persists. Staff only.
func (as *authService) RegisterClient(ctx context.Context, username, password string) (*types.Client, error) {
  as.log.Info("Starting RegisterClient now...")
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("Request Data is not set in context")
    return nil, domainerr.NewAuthorization("authentication required")
  }
  if !rd.Admin() {
    as.log.Warn("Non-admin caller attempted registration", "userID", rd.UserID)
    return nil, domainerr.NewAuthorization("you do not have permission to register a client")
  }

  username = normalization.ParseInputString(username)
  if vErr := utils.ValidateCredentials(as.log, username, password); vErr != nil {
    return nil, vErr
  }
  exists, eErr := as.userRepo.UsernameExists(ctx, nil, username, uuid.Nil)
  if eErr != nil {
    as.log.Warn("Failed to check username existence", "error", eErr)
    return nil, fmt.Errorf("failed checking username '%s' existence: %w", username, eErr)
  }
  if exists {
    as.log.Warn("Username already in use", "username", username)
    return nil, domainerr.NewValidation("username", "a user with that username already exists")
  }
  hashed, hErr := utils.HashPassword(as.log, password)
  if hErr != nil {
    return nil, hErr
  }

  var theClient *types.Client
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user := &types.User{
      ID:       uuid.New(),
      Username: username,
      Password: hashed,
      IsActive: true,
    }
    createdUsers, cUErr := as.userRepo.Create(ctx, tx, []*types.User{user})
    if cUErr != nil {
      as.log.Warn("Failed to create user for registration", "error", cUErr)
      return fmt.Errorf("failed to create user: %w", cUErr)
    }
    client := &types.Client{
      UserID:   createdUsers[0].ID,
      IsActive: true,
    }
    createdClients, cCErr := as.clientRepo.Create(ctx, tx, []*types.Client{client})
    if cCErr != nil {
      as.log.Warn("Failed to create client for registration", "error", cCErr)
      return fmt.Errorf("failed to create client: %w", cCErr)
    }
    theClient = createdClients[0]
    theClient.User = createdUsers[0]
    return nil
  })
  if err != nil {
    return nil, err
  }
  as.log.Info("Successfully registered client", "clientID", theClient.UserID)
  return theClient, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Login / Refresh / Logout
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Login(ctx context.Context, username, password string) (string, string, error) {
  username = normalization.ParseInputString(username)
  if vErr := utils.ValidateCredentials(as.log, username, password); vErr != nil {
    return "", "", vErr
  }

  users, uErr := as.userRepo.GetByUsernames(ctx, nil, []string{username})
  if uErr != nil {
    as.log.Warn("Failed to retrieve user by username, Cannot proceed. Returning error.", "error", uErr)
    return "", "", fmt.Errorf("error retrieving user by username: %w", uErr)
  }
  if len(users) == 0 {
    as.log.Warn("Invalid username, no users returned")
    return "", "", ErrInvalidCredentials
  }
  user := users[0]
  if !utils.CheckPassword(user.Password, password) {
    as.log.Warn("Invalid password for user", "userID", user.ID)
    return "", "", ErrInvalidCredentials
  }
  active, aErr := as.callerActive(ctx, nil, user)
  if aErr != nil {
    return "", "", aErr
  }
  if !active {
    as.log.Warn("Login rejected for inactive account", "userID", user.ID)
    return "", "", ErrAccountInactive
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, fTErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if fTErr != nil {
      as.log.Warn("Failed to check whether user already has user tokens, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("failed to check existing user tokens: %w", fTErr)
    }
    var expired []*types.UserToken
    for _, token := range foundTokens {
      if token != nil && token.ExpiresAt.Before(time.Now()) {
        expired = append(expired, token)
      }
    }
    if len(expired) > 0 {
      if dTErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, expired); dTErr != nil {
        as.log.Warn("Failed to delete expired user tokens, Cannot proceed. Returning error.", "error", dTErr)
        return fmt.Errorf("failed to delete expired user tokens: %w", dTErr)
      }
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Generate Access Token Error, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, cTErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); cTErr != nil {
      as.log.Warn("Create User Token Error, Cannot proceed. Returning error.", "error", cTErr)
      return fmt.Errorf("create user token error: %w", cTErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return "", "", domainerr.NewAuthorization("authentication required")
  }
  if rd.RefreshToken == "" {
    as.log.Warn("RefreshToken in Request Data is an empty string, Cannot proceed.")
    return "", "", domainerr.NewValidation("refresh", "a refresh token is required")
  }

  var accessToken string
  var newRefreshToken string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, fTErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
    if fTErr != nil {
      as.log.Warn("Error fetching refresh token, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("error fetching refresh token: %w", fTErr)
    }
    if len(foundTokens) == 0 {
      as.log.Warn("No user token found for the given refresh token, Cannot proceed.")
      return domainerr.NewNotFound("refresh token")
    }
    existingToken := foundTokens[0]
    if existingToken.ExpiresAt.Before(time.Now()) {
      if dTErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dTErr != nil {
        as.log.Warn("Refresh token expired, error deleting expired refresh token. Returning error.", "error", dTErr)
        return fmt.Errorf("refresh token expired, error deleting: %w", dTErr)
      }
      as.log.Warn("Refresh Token Expired, Cannot proceed.")
      return domainerr.NewAuthorization("refresh token expired")
    }
    users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existingToken.UserID})
    if uErr != nil {
      as.log.Warn("Failed to load user for refresh, Cannot proceed. Returning error.", "error", uErr)
      return fmt.Errorf("failed to load user for refresh: %w", uErr)
    }
    if len(users) == 0 {
      as.log.Warn("No user found for the given refresh token, Cannot proceed.")
      return domainerr.NewNotFound("user")
    }
    user := users[0]
    active, aErr := as.callerActive(ctx, tx, user)
    if aErr != nil {
      return aErr
    }
    if !active {
      as.log.Warn("Refresh rejected for inactive account", "userID", user.ID)
      return ErrAccountInactive
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Failed to generate new access token, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("failed to generate new access token: %w", genErr)
    }
    accessToken = tok
    newRefreshToken = uuid.New().String()
    newUserToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  tok,
      RefreshToken: newRefreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken}); cErr != nil {
      as.log.Warn("Failed to create new user token, Cannot proceed. Returning error.", "error", cErr)
      return fmt.Errorf("failed to create new user token: %w", cErr)
    }
    if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existingToken}); dErr != nil {
      as.log.Warn("Failed to remove old refresh token, Cannot proceed. Returning error.", "error", dErr)
      return fmt.Errorf("failed to remove old refresh token: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return domainerr.NewAuthorization("authentication required")
  }
  if rd.TokenString == "" {
    as.log.Warn("TokenString in Request Data is an empty string, Cannot proceed.")
    return domainerr.NewValidation("token", "an access token is required")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return as.revocation.Revoke(ctx, tx, rd.TokenString)
  })
}

//----------------------------------------------------------------------------------------------------------------------
// Token plumbing
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
    Username:    user.Username,
    IsStaff:     user.IsStaff,
    IsSuperuser: user.IsSuperuser,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken resolves the principal for a request: parses and
// verifies the access token, rejects revoked tokens, and loads the current
// activity state from the store so a deactivation that happened after the
// token was minted still locks the caller out.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired JWT token")
  }
  revoked, rErr := as.tokenBlacklist.Contains(ctx, tokenString)
  if rErr != nil {
    as.log.Warn("Failed to check token blacklist, Cannot proceed. Returning error.", "error", rErr)
    return ctx, fmt.Errorf("failed to check token blacklist: %w", rErr)
  }
  if revoked {
    as.log.Warn("Rejected revoked access token")
    return ctx, ErrTokenRevoked
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user ID in token: %w", err)
  }
  users, uErr := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    as.log.Warn("Failed to load user for token, Cannot proceed. Returning error.", "error", uErr)
    return ctx, fmt.Errorf("failed to load user for token: %w", uErr)
  }
  if len(users) == 0 {
    as.log.Warn("No user found for token subject", "userID", userID)
    return ctx, fmt.Errorf("no user found for token")
  }
  user := users[0]
  active, aErr := as.callerActive(ctx, nil, user)
  if aErr != nil {
    return ctx, aErr
  }
  var refreshToken string
  foundTokens, fTErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if fTErr != nil {
    as.log.Warn("Error fetching user token by access token, Cannot proceed. Returning error.", "error", fTErr)
    return ctx, fmt.Errorf("failed to fetch user token by access token: %w", fTErr)
  }
  if len(foundTokens) > 0 {
    refreshToken = foundTokens[0].RefreshToken
  }
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: refreshToken,
    UserID:       user.ID,
    Username:     user.Username,
    IsSuperuser:  user.IsSuperuser,
    IsStaff:      user.IsStaff,
    IsActive:     active,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

// callerActive decides whether the principal may act: the user row must be
// active, and a user backing a client additionally needs the client row
// active. Superusers and staff without a client row pass on the user flag
// alone.
func (as *authService) callerActive(ctx context.Context, tx *gorm.DB, user *types.User) (bool, error) {
  if !user.IsActive {
    return false, nil
  }
  if user.IsSuperuser {
    return true, nil
  }
  clients, cErr := as.clientRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
  if cErr != nil {
    as.log.Warn("Failed to load client for activity check", "error", cErr)
    return false, fmt.Errorf("failed to load client for activity check: %w", cErr)
  }
  if len(clients) == 0 {
    // Staff accounts need not have a client row.
    return user.IsStaff, nil
  }
  return clients[0].IsActive, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}

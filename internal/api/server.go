package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/attendly/attendance-api/docs"
	v1 "github.com/attendly/attendance-api/internal/api/handler/v1"
	"github.com/attendly/attendance-api/internal/api/middleware"
	"github.com/attendly/attendance-api/internal/config"
	"github.com/attendly/attendance-api/internal/minter"
	"github.com/attendly/attendance-api/internal/publisher"
	"github.com/attendly/attendance-api/internal/repository"
	"github.com/attendly/attendance-api/internal/repository/dao"
	"github.com/attendly/attendance-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the full dependency graph. The publisher and minter are
// injected so tests and alternate deployments can substitute them; mint may
// be nil when no chain is configured.
func NewServer(conf *config.AppConfig, db *gorm.DB, pub publisher.Publisher, mint minter.Minter, verifier service.TokenVerifier) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db, verifier)
	claimHandler := s.initClaimHandler(db, pub, mint)
	nftHandler := s.initNFTHandler(db, pub)
	eventHandler := s.initEventHandler(db)
	s.MountHandlers(authHandler, claimHandler, nftHandler, eventHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB, verifier service.TokenVerifier) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, verifier)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initClaimHandler(db *gorm.DB, pub publisher.Publisher, mint minter.Minter) *v1.ClaimHandler {
	claimRepo := repository.NewClaimRepository(dao.NewClaimDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewClaimService(claimRepo, eventRepo, userRepo, pub, mint, s.Config.API.BaseURL)
	handler := v1.NewClaimHandler(svc)

	return handler
}

func (s *Server) initNFTHandler(db *gorm.DB, pub publisher.Publisher) *v1.NFTHandler {
	claimRepo := repository.NewClaimRepository(dao.NewClaimDAO(db))
	svc := service.NewNFTService(claimRepo, pub, s.Config.API.BaseURL)
	handler := v1.NewNFTHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	repo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, claimHandler *v1.ClaimHandler, nftHandler *v1.NFTHandler, eventHandler *v1.EventHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Public: wallets and marketplaces fetch token metadata unauthenticated.
	public := s.Router.Group(basePath)
	{
		public.GET("/nft/metadata/:tokenID", nftHandler.HandleGetTokenMetadata)
	}

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	nfts := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		nfts.POST("/nfts/claim", claimHandler.HandleClaimAttendance)
		nfts.GET("/nfts", nftHandler.HandleGetUserNFTs)
		nfts.GET("/nfts/:nftID", nftHandler.HandleGetNFT)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireAdmin())
	{
		admin.POST("/admin/events", eventHandler.HandleCreateEvent)
		admin.GET("/admin/events", eventHandler.HandleGetEvents)
		admin.PATCH("/admin/events/:eventID", eventHandler.HandleUpdateEvent)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Attendance NFT API"
	docs.SwaggerInfo.Description = "Claim-code redemption for proof-of-attendance NFTs."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

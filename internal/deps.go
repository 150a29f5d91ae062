package internal

import (
	"bitwise74/account-api/aws"
	"bitwise74/account-api/config"
	"bitwise74/account-api/db"
	"bitwise74/account-api/internal/cache"
	"bitwise74/account-api/internal/service"
	"bitwise74/account-api/internal/storage"
	"bitwise74/account-api/internal/store"
	"bitwise74/account-api/pkg/security"
	"bitwise74/account-api/pkg/validators"
	"context"
	"fmt"

	"github.com/chenyahui/gin-cache/persist"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Cache
	Tokens *security.TokenIssuer
	Auth   *service.Auth
	Images *service.Images
	// Response cache shared by the router and the handlers that invalidate it
	ResponseCache persist.CacheStore

	onClose []func()
}

// OnClose registers f to run when the deps are closed
func (d *Deps) OnClose(f func()) {
	d.onClose = append(d.onClose, f)
}

// NewDeps connects to every backing service the config points at
func NewDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	d := &Deps{Config: cfg}

	gdb, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = gdb

	switch cfg.Cache.Type {
	case "redis":
		r, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache, %w", err)
		}
		d.Cache = r
	default:
		d.Cache = cache.NewMemory()
	}

	var st storage.Storage
	switch cfg.Storage.Type {
	case "s3":
		s3, err := aws.NewS3(ctx, cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		st = storage.NewS3(s3)
	default:
		st = storage.NewLocal(cfg.Storage.UploadDir)
	}

	notifier, err := service.NewNotifier(cfg.Mail)
	if err != nil {
		return nil, err
	}

	d.Tokens = security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	d.Auth = service.NewAuth(
		store.NewUsers(gdb),
		d.Cache,
		notifier,
		security.NewHasher(cfg.Security.BcryptCost),
		d.Tokens,
		service.AuthOpts{
			OTPTTL:         cfg.OTP.TTL,
			ResendCooldown: cfg.OTP.ResendCooldown,
		},
	)

	d.Images = service.NewImages(
		store.NewImages(gdb),
		st,
		cfg.Storage.BaseURL,
		validators.ImageOpts{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
	)

	zap.L().Debug("Dependencies initialized",
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Type),
		zap.String("storage", cfg.Storage.Type),
		zap.String("mail", cfg.Mail.Provider),
	)

	return d, nil
}

func (d *Deps) Close() error {
	for _, f := range d.onClose {
		f()
	}

	if d.Cache != nil {
		d.Cache.Close()
	}

	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Close()
	}

	return nil
}

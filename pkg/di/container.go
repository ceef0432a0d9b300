// Package di provides dependency injection container
package di

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/kdmurray91/libqes/pkg/alloc"
	"github.com/kdmurray91/libqes/pkg/config"
	"github.com/kdmurray91/libqes/pkg/logging"
	"github.com/kdmurray91/libqes/pkg/seqrec"
	"github.com/kdmurray91/libqes/pkg/storage"
)

// StoreOpener opens a record store in a data directory.
type StoreOpener func(dataDir string) (*storage.Store, error)

// Container holds all the dependencies for the application
type Container struct {
	config    *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	allocator *alloc.Allocator
	factory   *seqrec.Factory
	openStore StoreOpener
}

// NewContainer wires a container from cfg. The allocation failure policy is
// resolved here, once, and shared by every record the container builds.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(cfg.Logging)
	policy, err := alloc.PolicyByName(cfg.Buffer.OnAllocFailure, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	c := &Container{
		config:    cfg,
		logger:    logger,
		logCloser: logCloser,
		allocator: alloc.New(
			alloc.WithPolicy(policy),
			alloc.WithMaxCapacity(cfg.Buffer.MaxCapacity),
		),
	}
	c.factory = seqrec.NewFactory(
		seqrec.WithAllocator(c.allocator),
		seqrec.WithCapacity(cfg.Buffer.InitialCapacity),
		seqrec.WithLogger(logger),
	)
	c.openStore = c.defaultStoreOpener
	return c, nil
}

// GetConfig returns the configuration the container was built from
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetAllocator returns the shared allocator
func (c *Container) GetAllocator() *alloc.Allocator {
	return c.allocator
}

// GetFactory returns the record factory
func (c *Container) GetFactory() *seqrec.Factory {
	return c.factory
}

// OpenStore opens the record store under dataDir, or the configured data
// directory when dataDir is empty.
func (c *Container) OpenStore(dataDir string) (*storage.Store, error) {
	if dataDir == "" {
		dataDir = c.config.DataDir
	}
	return c.openStore(dataDir)
}

// SetStoreOpener allows overriding how stores are opened (for testing)
func (c *Container) SetStoreOpener(open StoreOpener) {
	c.openStore = open
}

// SetLogger replaces the logger (for testing)
func (c *Container) SetLogger(l *slog.Logger) {
	c.logger = l
}

// Close releases resources held by the container, such as the log file.
func (c *Container) Close() error {
	return c.logCloser.Close()
}

func (c *Container) defaultStoreOpener(dataDir string) (*storage.Store, error) {
	return storage.Open(filepath.Join(dataDir, "records"), storage.Options{
		Factory: c.factory,
		Logger:  c.logger,
	})
}

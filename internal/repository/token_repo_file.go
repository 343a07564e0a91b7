package repository

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var _ TokenRepository = &TokenFileRepository{}

// Credential is one entry of the tokens file.
type Credential struct {
	UserID  uint   `yaml:"user_id"`
	Name    string `yaml:"name,omitempty"`
	Token   string `yaml:"token"`
	Default bool   `yaml:"default,omitempty"`
}

// TokenFileRepository reads bearer tokens from a yaml file and reloads
// it on change, so a token rotation needs no restart.
type TokenFileRepository struct {
	tokenFile string
	logger    *slog.Logger
	tokens    map[uint]string
	defaultID uint

	watcher *fsnotify.Watcher

	mx sync.RWMutex
}

func NewFileTokenRepo(tokenFile string) *TokenFileRepository {
	r := &TokenFileRepository{
		logger:    slog.Default().With("logger", "TokenManager"),
		tokenFile: tokenFile,
		tokens:    make(map[uint]string),
	}

	if err := r.loadTokensFile(); err != nil {
		r.logger.Error("error loading tokens file", slog.Any("error", err))
	}

	return r
}

func (r *TokenFileRepository) loadTokensFile() error {
	r.mx.Lock()
	defer r.mx.Unlock()

	if _, err := os.Lstat(r.tokenFile); os.IsNotExist(err) {
		// create empty file
		f, err := os.Create(r.tokenFile)
		if err != nil {
			return err
		}

		return f.Close()
	}

	dat, err := os.ReadFile(r.tokenFile)
	if err != nil {
		return err
	}

	creds := make([]*Credential, 0)

	if err := yaml.Unmarshal(dat, &creds); err != nil {
		return err
	}

	r.tokens = make(map[uint]string)
	r.defaultID = 0

	for _, c := range creds {
		if c.UserID == 0 || c.Token == "" {
			continue
		}

		r.tokens[c.UserID] = c.Token

		if c.Default || r.defaultID == 0 {
			r.defaultID = c.UserID
		}
	}

	return nil
}

func (r *TokenFileRepository) Start() error {
	var err error

	r.watcher, err = fsnotify.NewWatcher()

	if err != nil {
		return err
	}

	if err := r.watcher.Add(r.tokenFile); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-r.watcher.Events:
				if !ok {
					return
				}

				r.logger.Debug(fmt.Sprintf("event: %v", event))

				if event.Has(fsnotify.Write) && event.Name == r.tokenFile {
					r.logger.Info("tokens file is modified, reloading")

					if err := r.loadTokensFile(); err != nil {
						r.logger.Error("error", slog.Any("error", err))
					}
				}
			case err, ok := <-r.watcher.Errors:
				if !ok {
					return
				}

				r.logger.Error("watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func (r *TokenFileRepository) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

// Token returns the bearer token for a user. A zero id selects the
// default credential. An unknown user yields an empty token and the
// request goes out unauthenticated.
func (r *TokenFileRepository) Token(userID uint) string {
	r.mx.RLock()
	defer r.mx.RUnlock()

	if userID == 0 {
		userID = r.defaultID
	}

	return r.tokens[userID]
}

func (r *TokenFileRepository) DefaultUserID() uint {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.defaultID
}

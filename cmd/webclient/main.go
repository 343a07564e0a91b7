package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyhub/webclient/internal/callbacks"
	"github.com/studyhub/webclient/internal/client"
	"github.com/studyhub/webclient/internal/drafts"
	"github.com/studyhub/webclient/internal/repository"
	"github.com/studyhub/webclient/internal/wshandler"
	"github.com/studyhub/webclient/pkg/model"
)

type App struct {
	logger   *slog.Logger
	webPort  int
	userID   uint
	userName string

	remote  *client.RemoteAPI
	tokens  repository.TokenRepository
	drafts  *drafts.Manager
	changes *callbacks.Callback[*wshandler.WebMessage]
}

func NewApp(userID uint, userName string, webPort int, remote *client.RemoteAPI, tokens repository.TokenRepository, dm *drafts.Manager) *App {
	return &App{
		logger:   slog.Default().With("logger", "app"),
		webPort:  webPort,
		userID:   userID,
		userName: userName,
		remote:   remote,
		tokens:   tokens,
		drafts:   dm,
		changes:  callbacks.New[*wshandler.WebMessage](),
	}
}

func (app *App) Run(ctx context.Context) {
	if err := app.tokens.Start(); err != nil {
		app.logger.Error("token watcher error", slog.Any("error", err))
	}

	defer app.tokens.Stop()

	go func() {
		addr := fmt.Sprintf(":%d", app.webPort)
		app.logger.Info("listening " + addr)

		if err := NewHttp(app).Serve(addr); err != nil {
			panic(err)
		}
	}()

	<-ctx.Done()
}

func (app *App) notifySession(s *model.Session) {
	app.changes.AddMessage(&wshandler.WebMessage{Typ: "session", Session: s})
}

func (app *App) notifyInvitation(i *model.Invitation) {
	app.changes.AddMessage(&wshandler.WebMessage{Typ: "invitation", Invitation: i})
}

func (app *App) notifySessionRemoved(id uint) {
	app.changes.AddMessage(&wshandler.WebMessage{Typ: "session_removed", SessionID: id})
}

func setupLogging(debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if debug {
		opts.Level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
}

func main() {
	conf := flag.String("config", "studyhub_client.yml", "name of config file")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	viper.SetConfigFile(*conf)

	viper.SetDefault("server_url", "http://localhost:8080/api")
	viper.SetDefault("web_port", 8088)
	viper.SetDefault("me.user_id", 0)
	viper.SetDefault("me.name", "")
	viper.SetDefault("tokens_file", "studyhub_tokens.yml")
	viper.SetDefault("drafts_db", "drafts.db")
	viper.SetDefault("ssl.insecure", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			panic(fmt.Errorf("config error: %w", err))
		}
	}

	setupLogging(*debug || viper.GetBool("debug"))

	tokens := repository.NewFileTokenRepo(viper.GetString("tokens_file"))

	userID := uint(viper.GetUint32("me.user_id"))
	if userID == 0 {
		userID = tokens.DefaultUserID()
	}

	db, err := gorm.Open(sqlite.Open(viper.GetString("drafts_db")), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		panic(err)
	}

	dm := drafts.New(db)
	if err := dm.Migrate(); err != nil {
		panic(err)
	}

	remote := client.NewRemoteAPI(viper.GetString("server_url"), tokens)

	if viper.GetBool("ssl.insecure") {
		remote.SetInsecureTLS()
	}

	app := NewApp(userID, viper.GetString("me.name"), viper.GetInt("web_port"), remote, tokens, dm)

	app.logger.Info(fmt.Sprintf("user id: %d", app.userID))
	app.logger.Info("server: " + viper.GetString("server_url"))

	ctx, cancel := context.WithCancel(context.Background())

	go app.Run(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	cancel()
}

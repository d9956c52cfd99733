package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

type Config struct {
	Homeserver string
	User       string
	Password   string
	Room       string // optional room to join on startup

	// Timeout bounds one submission end to end, OCR included.
	Timeout time.Duration
	// Workers caps concurrent submissions so the sync loop never blocks
	// on pixel work.
	Workers int
}

// Run logs in, joins the configured room, and dispatches message events
// until ctx is done. Each submission runs on its own worker; the sync
// loop only ever hands work off.
func Run(ctx context.Context, cfg Config, h *Handler) error {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}

	client, err := mautrix.NewClient(cfg.Homeserver, "", "")
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}
	login, err := client.Login(ctx, &mautrix.ReqLogin{
		Type: "m.login.password",
		Identifier: mautrix.UserIdentifier{
			Type: mautrix.IdentifierTypeUser,
			User: cfg.User,
		},
		Password: cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	client.SetCredentials(login.UserID, login.AccessToken)

	if cfg.Room != "" {
		if _, err := client.JoinRoom(ctx, cfg.Room, "", nil); err != nil {
			log.Printf("join room %q failed: %v", cfg.Room, err)
		} else {
			log.Printf("joined room %s", cfg.Room)
		}
	}

	syncer, ok := client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type %T", client.Syncer)
	}

	// every handler runs on a capped worker so neither pixel work nor a
	// command flood can pile up behind the sync loop
	workers := make(chan struct{}, cfg.Workers)
	dispatch := func(handle func()) {
		select {
		case workers <- struct{}{}:
		case <-ctx.Done():
			return
		}
		go func() {
			defer func() { <-workers }()
			handle()
		}()
	}

	syncer.OnEventType(event.EventMessage, func(_ context.Context, evt *event.Event) {
		if evt.Sender == login.UserID {
			return
		}
		msg := evt.Content.AsMessage()
		switch {
		case msg.MsgType == event.MsgImage:
			dispatch(func() { handleImageEvent(ctx, cfg, client, h, evt, msg) })
		case msg.MsgType == event.MsgText && strings.TrimSpace(msg.Body) == "!stats":
			dispatch(func() { handleStatsEvent(ctx, cfg, client, h, evt) })
		}
	})

	log.Printf("wordle bot syncing as %s", login.UserID)
	if err := client.SyncWithContext(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

func handleImageEvent(ctx context.Context, cfg Config, client *mautrix.Client, h *Handler, evt *event.Event, msg *event.MessageEventContent) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	uri, err := msg.URL.Parse()
	if err != nil {
		log.Printf("bad image URI from %s: %v", evt.Sender, err)
		return
	}
	img, err := client.DownloadBytes(ctx, uri)
	if err != nil {
		log.Printf("download from %s failed: %v", evt.Sender, err)
		return
	}

	user := evt.Sender.Localpart()
	reply, err := h.HandleSubmission(ctx, user, time.UnixMilli(evt.Timestamp), img)
	if err != nil {
		notifyError(ctx, client, evt.RoomID, user, err)
		return
	}
	sendReply(ctx, client, evt.RoomID, reply)
}

func handleStatsEvent(ctx context.Context, cfg Config, client *mautrix.Client, h *Handler, evt *event.Event) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	user := evt.Sender.Localpart()
	reply, err := h.HandleStats(ctx, user)
	if err != nil {
		notifyError(ctx, client, evt.RoomID, user, err)
		return
	}
	sendReply(ctx, client, evt.RoomID, reply)
}

func notifyError(ctx context.Context, client *mautrix.Client, room id.RoomID, user string, err error) {
	msg := UserMessage(err)
	if msg == "" {
		log.Printf("submission from %s failed: %v", user, err)
		msg = "something went wrong, sorry"
	} else {
		log.Printf("submission from %s rejected: %v", user, err)
	}
	sendReply(ctx, client, room, Reply{Text: fmt.Sprintf("%s: %s", user, msg)})
}

func sendReply(ctx context.Context, client *mautrix.Client, room id.RoomID, reply Reply) {
	content := event.MessageEventContent{
		MsgType:       event.MsgNotice,
		Body:          reply.PlainText(),
		Format:        event.FormatHTML,
		FormattedBody: reply.HTML(),
	}
	if _, err := client.SendMessageEvent(ctx, room, event.EventMessage, &content); err != nil {
		log.Printf("send to %s failed: %v", room, err)
	}
}

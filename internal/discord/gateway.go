package discord

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const defaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

// Gateway opcodes.
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

// Gateway intents: GUILD_MESSAGES and MESSAGE_CONTENT.
const (
	intentGuildMessages  = 1 << 9
	intentMessageContent = 1 << 15
)

const (
	gatewayReadLimit  = 4 << 20
	reconnectBaseWait = time.Second
	reconnectMaxWait  = 30 * time.Second
)

// errResumeRequested forces a reconnect cycle without treating the
// session end as a transport failure.
var errResumeRequested = errors.New("gateway requested reconnect")

// Gateway maintains a websocket connection to the Discord gateway and
// emits MESSAGE_CREATE events. It reconnects with capped exponential
// backoff until the context is cancelled.
type Gateway struct {
	token string
	url   string
	log   zerolog.Logger

	seq     atomic.Int64
	writeMu sync.Mutex
}

// NewGateway creates a gateway client for the given bot token.
func NewGateway(token string, log zerolog.Logger) *Gateway {
	return &Gateway{
		token: token,
		url:   defaultGatewayURL,
		log:   log.With().Str("component", "gateway").Logger(),
	}
}

// Run connects to the gateway and writes inbound messages to out until
// ctx is cancelled. The caller owns the channel and should close it
// after Run returns.
func (g *Gateway) Run(ctx context.Context, out chan<- Message) error {
	wait := reconnectBaseWait
	for {
		err := g.session(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !errors.Is(err, errResumeRequested) {
			g.log.Warn().Err(err).Dur("retry_in", wait).Msg("gateway session ended")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
		wait *= 2
		if wait > reconnectMaxWait {
			wait = reconnectMaxWait
		}
	}
}

// session runs one connect/identify/read cycle.
func (g *Gateway) session(ctx context.Context, out chan<- Message) error {
	conn, _, err := websocket.Dial(ctx, g.url, nil)
	if err != nil {
		return fmt.Errorf("dialing gateway: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "shutting down")
	conn.SetReadLimit(gatewayReadLimit)

	_, hello, err := conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading hello: %w", err)
	}
	if gjson.GetBytes(hello, "op").Int() != opHello {
		return fmt.Errorf("expected hello, got op %d", gjson.GetBytes(hello, "op").Int())
	}
	interval := time.Duration(gjson.GetBytes(hello, "d.heartbeat_interval").Int()) * time.Millisecond
	if interval <= 0 {
		return fmt.Errorf("invalid heartbeat interval in hello payload")
	}

	if err := g.identify(ctx, conn); err != nil {
		return err
	}

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go g.heartbeatLoop(hbCtx, conn, interval)

	return g.readLoop(ctx, conn, out)
}

func (g *Gateway) identify(ctx context.Context, conn *websocket.Conn) error {
	payload := []byte(`{"op":2,"d":{"properties":{"browser":"discli","device":"discli"}}}`)
	payload, _ = sjson.SetBytes(payload, "d.properties.os", runtime.GOOS)
	payload, _ = sjson.SetBytes(payload, "d.token", g.token)
	payload, _ = sjson.SetBytes(payload, "d.intents", intentGuildMessages|intentMessageContent)
	return g.write(ctx, conn, payload)
}

// heartbeatLoop beats at the server-provided interval. The first beat
// is jittered as the gateway documentation requires.
func (g *Gateway) heartbeatLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	first := time.Duration(rand.Int63n(int64(interval)))
	select {
	case <-ctx.Done():
		return
	case <-time.After(first):
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := g.sendHeartbeat(ctx, conn); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (g *Gateway) sendHeartbeat(ctx context.Context, conn *websocket.Conn) error {
	payload := []byte(`{"op":1,"d":null}`)
	if seq := g.seq.Load(); seq > 0 {
		payload, _ = sjson.SetBytes(payload, "d", seq)
	}
	return g.write(ctx, conn, payload)
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Message) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading gateway frame: %w", err)
		}

		switch gjson.GetBytes(data, "op").Int() {
		case opDispatch:
			if seq := gjson.GetBytes(data, "s"); seq.Exists() {
				g.seq.Store(seq.Int())
			}
			g.handleDispatch(ctx, data, out)
		case opHeartbeat:
			if err := g.sendHeartbeat(ctx, conn); err != nil {
				return err
			}
		case opReconnect, opInvalidSession:
			g.log.Info().Msg("gateway asked for a new session")
			return errResumeRequested
		case opHeartbeatACK:
			// Nothing to do.
		}
	}
}

func (g *Gateway) handleDispatch(ctx context.Context, data []byte, out chan<- Message) {
	switch gjson.GetBytes(data, "t").String() {
	case "READY":
		g.log.Info().
			Str("user", gjson.GetBytes(data, "d.user.username").String()).
			Int64("guilds", int64(len(gjson.GetBytes(data, "d.guilds").Array()))).
			Msg("gateway ready")
	case "RESUMED":
		g.log.Info().Msg("gateway resumed")
	case "MESSAGE_CREATE":
		msg := parseMessage(gjson.GetBytes(data, "d"))
		g.log.Debug().
			Str("channel", msg.ChannelID).
			Str("author", msg.Author.Username).
			Msg("message received")
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}
}

func parseMessage(d gjson.Result) Message {
	var attachments []string
	for _, a := range d.Get("attachments").Array() {
		attachments = append(attachments, a.Get("filename").String())
	}
	return Message{
		ID:        d.Get("id").String(),
		ChannelID: d.Get("channel_id").String(),
		Content:   d.Get("content").String(),
		Author: Author{
			ID:       d.Get("author.id").String(),
			Username: d.Get("author.username").String(),
		},
		Timestamp:   d.Get("timestamp").String(),
		Attachments: attachments,
		EmbedCount:  len(d.Get("embeds").Array()),
	}
}

func (g *Gateway) write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return conn.Write(ctx, websocket.MessageText, payload)
}

package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/message/unpack"
	"github.com/gotd/td/telegram/peers"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"courier/internal/classify"
	"courier/internal/upload"
)

// channelIDOffset converts the -100-prefixed channel form into the bare
// MTProto channel identifier.
const channelIDOffset = int64(1_000_000_000_000)

// Transport delivers files over the live MTProto connection. It satisfies
// the upload package's Transport contract.
type Transport struct {
	client   *telegram.Client
	api      *tg.Client
	peers    *peers.Manager
	partSize int
}

func newTransport(client *telegram.Client, partSize int) *Transport {
	api := client.API()
	return &Transport{
		client:   client,
		api:      api,
		peers:    peers.Options{}.Build(api),
		partSize: partSize,
	}
}

// SendFile uploads the file and sends it as a document to the peer,
// returning the resulting message ID. Backend failures are mapped to the
// upload package's typed errors so the state machine can decide the
// transition.
func (t *Transport) SendFile(ctx context.Context, dest classify.PeerRef, path, caption string, progress upload.ProgressFunc) (int64, error) {
	up := uploader.NewUploader(t.api).
		WithPartSize(t.partSize).
		WithProgress(progressAdapter{fn: progress})

	file, err := up.FromPath(ctx, path)
	if err != nil {
		return 0, mapTransportError(fmt.Errorf("upload parts: %w", err))
	}

	sender := message.NewSender(t.api).WithUploader(up)
	builder, err := t.builderFor(ctx, sender, dest)
	if err != nil {
		return 0, mapTransportError(err)
	}

	document := message.UploadedDocument(file, styling.Plain(caption)).
		Filename(filepath.Base(path)).
		ForceFile(true)

	id, err := unpack.MessageID(builder.Media(ctx, document))
	if err != nil {
		return 0, mapTransportError(fmt.Errorf("send document: %w", err))
	}
	return int64(id), nil
}

// mediaSender is the slice of the message builder SendFile needs; the
// sender returns different builder types for resolved and direct peers.
type mediaSender interface {
	Media(ctx context.Context, media message.MediaOption) (tg.UpdatesClass, error)
}

func (t *Transport) builderFor(ctx context.Context, sender *message.Sender, dest classify.PeerRef) (mediaSender, error) {
	if dest.IsChannel() {
		bare := -dest.ChannelID() - channelIDOffset
		channel, err := t.peers.GetChannel(ctx, &tg.InputChannel{ChannelID: bare})
		if err != nil {
			return nil, fmt.Errorf("resolve channel %d: %w", dest.ChannelID(), err)
		}
		return sender.To(channel.InputPeer()), nil
	}

	alias := dest.AliasName()
	if alias == "" || alias == "me" {
		return sender.Self(), nil
	}
	return sender.Resolve(alias), nil
}

// Healthy probes the link with a cheap self lookup.
func (t *Transport) Healthy(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := t.client.Self(probeCtx)
	return err == nil
}

// Reconnect forces the underlying connection manager to re-establish the
// link; the client reconnects internally, so issuing a small RPC both
// triggers and verifies it.
func (t *Transport) Reconnect(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := t.client.Self(probeCtx); err != nil {
		return fmt.Errorf("reconnect probe: %w", err)
	}
	return nil
}

type progressAdapter struct {
	fn upload.ProgressFunc
}

func (p progressAdapter) Chunk(_ context.Context, state uploader.ProgressState) error {
	if p.fn != nil {
		p.fn(state.Uploaded, state.Total)
	}
	return nil
}

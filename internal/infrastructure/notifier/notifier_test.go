package notifier_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mymmrac/telego"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/infrastructure/notifier"
	"deal_scout/pkg/retry"
)

func sample() entity.Opportunity {
	return entity.Opportunity{
		Deal: entity.Deal{
			Description: "Samsung 65\" QLED TV <2024 model>",
			Price:       1099.5,
			URL:         "https://example.com/tv?a=1&b=2",
		},
		Estimate: 1450,
		Discount: 350.5,
	}
}

func TestNewMessage(t *testing.T) {
	rq := require.New(t)

	msg := notifier.NewMessage(sample())

	rq.Equal(
		`Deal Alert! Price=$1,099.50, Estimate=$1,450.00, Discount=$350.50 : Samsung 65" QLED TV <2024 model> https://example.com/tv?a=1&b=2`,
		msg.Text,
	)
	rq.Contains(msg.Subject, "$350.50 off")
	rq.Contains(msg.HTML, "&lt;2024 model&gt;")
	rq.Contains(msg.HTML, `href="https://example.com/tv?a=1&amp;b=2"`)
}

func TestNewMessageShortensDescription(t *testing.T) {
	o := sample()
	o.Deal.Description = strings.Repeat("x", 500)

	msg := notifier.NewMessage(o)
	require.Contains(t, msg.Text, strings.Repeat("x", 200)+"... ")
	require.NotContains(t, msg.Text, strings.Repeat("x", 201))
}

type senderStub struct {
	name  string
	mu    sync.Mutex
	calls int
	fail  int
	got   []notifier.Message
}

func (s *senderStub) Channel() string { return s.name }

func (s *senderStub) Send(_ context.Context, msg notifier.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls <= s.fail {
		return errors.New("channel down")
	}
	s.got = append(s.got, msg)

	return nil
}

func TestDispatcherNotify(t *testing.T) {
	rq := require.New(t)

	broken := &senderStub{name: "broken", fail: 100}
	flaky := &senderStub{name: "flaky", fail: 1}
	healthy := &senderStub{name: "healthy"}

	d := notifier.NewDispatcher(broken, flaky, healthy).
		WithRetry(retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})

	d.Notify(context.Background(), sample())

	rq.Equal(2, broken.calls)
	rq.Empty(broken.got)
	rq.Equal(2, flaky.calls)
	rq.Len(flaky.got, 1)
	rq.Len(healthy.got, 1)
	rq.Equal(sample(), healthy.got[0].Opportunity)
	rq.Equal([]string{"broken", "flaky", "healthy"}, d.Channels())
}

type writerStub struct {
	msgs []kafka.Message
	err  error
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (*writerStub) Close() error { return nil }

func TestKafkaSend(t *testing.T) {
	rq := require.New(t)

	w := &writerStub{}
	k := notifier.NewKafka(w)

	rq.NoError(k.Send(context.Background(), notifier.NewMessage(sample())))
	rq.Len(w.msgs, 1)
	rq.Equal("https://example.com/tv?a=1&b=2", string(w.msgs[0].Key))

	var event map[string]any
	rq.NoError(jsoniter.Unmarshal(w.msgs[0].Value, &event))
	rq.InDelta(350.5, event["discount"], 1e-9)
	rq.Equal("https://example.com/tv?a=1&b=2", event["deal"].(map[string]any)["url"])
	rq.NotEmpty(event["found_at"])

	w.err = errors.New("broker down")
	rq.Error(k.Send(context.Background(), notifier.NewMessage(sample())))
}

func TestTelegramBotSend(t *testing.T) {
	rq := require.New(t)

	const token = "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw0"

	var (
		mu   sync.Mutex
		path string
		body []byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	}))
	defer srv.Close()

	bot, err := notifier.NewTelegramBot(token, 42, telego.WithAPIServer(srv.URL), telego.WithDiscardLogger())
	rq.NoError(err)
	rq.Equal("telegram", bot.Channel())

	rq.NoError(bot.Send(context.Background(), notifier.NewMessage(sample())))

	mu.Lock()
	defer mu.Unlock()

	rq.Equal("/bot"+token+"/sendMessage", path)
	rq.True(bytes.Contains(body, []byte(`"parse_mode":"HTML"`)))
	rq.True(bytes.Contains(body, []byte(`"chat_id":42`)))
}

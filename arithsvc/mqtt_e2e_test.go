package arithsvc_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	arith "github.com/xizhibei/go-arith"
	"github.com/xizhibei/go-arith/arithsvc"
	"github.com/xizhibei/go-arith/compressor"
	"github.com/xizhibei/go-arith/mqttadapter"
	mock_mqttadapter "github.com/xizhibei/go-arith/mqttadapter/mock"
	mock_mqtt "github.com/xizhibei/go-arith/mqttadapter/mock/mqtt"
	"github.com/xizhibei/go-arith/mqttjson"
	"github.com/xizhibei/go-arith/rrpc"
	"go.uber.org/mock/gomock"
)

var _ arithsvc.Caller = (*mqttjson.Client)(nil)

// router is an in-memory broker supporting the "+" wildcard.
type router struct {
	mu   sync.Mutex
	ctrl *gomock.Controller
	subs map[string]mqttadapter.MessageCallback
}

func topicMatch(filter, topic string) bool {
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	if len(fs) != len(ts) {
		return false
	}
	for i := range fs {
		if fs[i] != "+" && fs[i] != ts[i] {
			return false
		}
	}
	return true
}

func (r *router) subscribe(topic string, cb mqttadapter.MessageCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[topic] = cb
}

func (r *router) unsubscribe(topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, topic)
}

func (r *router) publish(to mqttadapter.MQTTClientAdapter, topic string, data []byte) {
	r.mu.Lock()
	var cbs []mqttadapter.MessageCallback
	for filter, cb := range r.subs {
		if topicMatch(filter, topic) {
			cbs = append(cbs, cb)
		}
	}
	r.mu.Unlock()

	for _, cb := range cbs {
		m := mock_mqtt.NewMockMessage(r.ctrl)
		m.EXPECT().Payload().Return(data).AnyTimes()
		m.EXPECT().Topic().Return(topic).AnyTimes()
		m.EXPECT().Retained().Return(false).AnyTimes()
		go cb(to, m)
	}
}

type MQTTEndToEndTestSuite struct {
	suite.Suite
	encoding compressor.ContentEncoding

	mockCtrl *gomock.Controller
	router   *router
	server   *mqttjson.Server
	client   *arithsvc.Client
}

func (suite *MQTTEndToEndTestSuite) SetupTest() {
	suite.mockCtrl = gomock.NewController(suite.T())
	suite.router = &router{
		ctrl: suite.mockCtrl,
		subs: map[string]mqttadapter.MessageCallback{},
	}

	serverAdapter := mock_mqttadapter.NewMockMQTTClientAdapter(suite.mockCtrl)
	clientAdapter := mock_mqttadapter.NewMockMQTTClientAdapter(suite.mockCtrl)

	serverAdapter.EXPECT().EnsureConnected()
	serverAdapter.EXPECT().
		OnConnect(gomock.Any()).
		DoAndReturn(func(cb mqttadapter.OnConnectCallback) int {
			cb()
			return 0
		})
	serverAdapter.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, topic string, _ byte, cb mqttadapter.MessageCallback) {
			suite.router.subscribe(topic, cb)
		})
	serverAdapter.EXPECT().
		PublishBytes(gomock.Any(), gomock.Any(), gomock.Any(), false, gomock.Any()).
		Do(func(_ context.Context, topic string, _ byte, _ bool, data []byte) {
			suite.router.publish(clientAdapter, topic, data)
		}).
		AnyTimes()
	serverAdapter.EXPECT().
		Unsubscribe(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, topic string) {
			suite.router.unsubscribe(topic)
		})
	serverAdapter.EXPECT().Disconnect()

	clientAdapter.EXPECT().EnsureConnected()
	clientAdapter.EXPECT().
		SubscribeWait(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, topic string, _ byte, cb mqttadapter.MessageCallback) error {
			suite.router.subscribe(topic, cb)
			return nil
		}).
		AnyTimes()
	clientAdapter.EXPECT().
		PublishBytes(gomock.Any(), gomock.Any(), gomock.Any(), false, gomock.Any()).
		Do(func(_ context.Context, topic string, _ byte, _ bool, data []byte) {
			suite.router.publish(serverAdapter, topic, data)
		}).
		AnyTimes()
	clientAdapter.EXPECT().
		Unsubscribe(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, topic string) {
			suite.router.unsubscribe(topic)
		}).
		AnyTimes()

	suite.server = mqttjson.NewServer(
		serverAdapter,
		"arith",
		"device-1",
		validator.New(),
		rrpc.WithLimiter(time.Millisecond, 1000),
	)
	arithsvc.Register(suite.server, arithsvc.WithTimeout(time.Second))

	mqttClient := mqttjson.NewClient(clientAdapter, "arith", mqttjson.WithContentEncoding(suite.encoding))
	suite.client = arithsvc.NewClient(mqttClient, "device-1")
}

func (suite *MQTTEndToEndTestSuite) TearDownTest() {
	suite.NoError(suite.server.Close())
}

func (suite *MQTTEndToEndTestSuite) TestOperations() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sum, err := suite.client.Sum(ctx, 2, 2)
	suite.NoError(err)
	suite.Equal(4.0, sum)

	diff, err := suite.client.Diff(ctx, 2, 2)
	suite.NoError(err)
	suite.Equal(0.0, diff)

	mult, err := suite.client.Mult(ctx, 2, 3)
	suite.NoError(err)
	suite.Equal(6.0, mult)

	q, err := suite.client.Div(ctx, arith.DivInput{Dividend: 4, Divisor: 2})
	suite.NoError(err)
	suite.Equal(2.0, q)
}

func (suite *MQTTEndToEndTestSuite) TestDivByZero() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := suite.client.Div(ctx, arith.DivInput{Dividend: 4, Divisor: 0})
	suite.True(errors.Is(err, arith.ErrDivisionByZero), "%v", err)
}

func (suite *MQTTEndToEndTestSuite) TestUnknownTarget() {
	mqttClient := mqttjson.NewClient(suite.serverlessAdapter(), "arith")
	client := arithsvc.NewClient(mqttClient, "device-2")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Sum(ctx, 1, 1)
	suite.ErrorIs(err, context.DeadlineExceeded)
}

// serverlessAdapter publishes into the router, where nothing listens for device-2.
func (suite *MQTTEndToEndTestSuite) serverlessAdapter() mqttadapter.MQTTClientAdapter {
	adapter := mock_mqttadapter.NewMockMQTTClientAdapter(suite.mockCtrl)
	adapter.EXPECT().EnsureConnected()
	adapter.EXPECT().
		SubscribeWait(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
	adapter.EXPECT().
		PublishBytes(gomock.Any(), gomock.Any(), gomock.Any(), false, gomock.Any()).
		Do(func(_ context.Context, topic string, _ byte, _ bool, data []byte) {
			suite.router.publish(adapter, topic, data)
		})
	adapter.EXPECT().Unsubscribe(gomock.Any(), gomock.Any())
	return adapter
}

func TestMQTTEndToEnd(t *testing.T) {
	for _, enc := range []compressor.ContentEncoding{
		compressor.ContentEncodingPlain,
		compressor.ContentEncodingGzip,
		compressor.ContentEncodingDeflate,
		compressor.ContentEncodingBrotli,
	} {
		t.Run(enc.String(), func(t *testing.T) {
			suite.Run(t, &MQTTEndToEndTestSuite{encoding: enc})
		})
	}
}

package wsjson_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xizhibei/go-arith/arithsvc"
	"github.com/xizhibei/go-arith/rrpc"
	"github.com/xizhibei/go-arith/wsjson"
	"go.uber.org/zap"
)

type WSJsonServerTestSuite struct {
	suite.Suite
	httpServer *httptest.Server
	conns      chan *websocket.Conn
	server     *wsjson.Server
}

func (suite *WSJsonServerTestSuite) SetupSuite() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(log)
}

func (suite *WSJsonServerTestSuite) SetupTest() {
	suite.conns = make(chan *websocket.Conn, 2)

	upgrader := websocket.Upgrader{}
	suite.httpServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		suite.conns <- conn
	}))

	uri := "ws" + strings.TrimPrefix(suite.httpServer.URL, "http") + "/rpc"
	server, err := wsjson.New(uri, validator.New(), rrpc.WithLimiter(time.Millisecond, 100))
	suite.Require().NoError(err)
	server.SetReconnectDelay(10 * time.Millisecond)

	arithsvc.Register(server)
	suite.server = server
}

func (suite *WSJsonServerTestSuite) TearDownTest() {
	suite.NoError(suite.server.Close())
	suite.False(suite.server.IsConnected())
	suite.httpServer.Close()
}

func (suite *WSJsonServerTestSuite) accept() *websocket.Conn {
	select {
	case conn := <-suite.conns:
		return conn
	case <-time.After(5 * time.Second):
		suite.FailNow("server did not connect")
	}
	return nil
}

func (suite *WSJsonServerTestSuite) call(conn *websocket.Conn, req string) map[string]interface{} {
	suite.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(req)))
	suite.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))

	var res map[string]interface{}
	suite.Require().NoError(conn.ReadJSON(&res))
	return res
}

func (suite *WSJsonServerTestSuite) TestCall() {
	conn := suite.accept()
	defer conn.Close()

	res := suite.call(conn, `{"id":1,"method":"sum","params":{"a":2,"b":2}}`)
	suite.Equal(1.0, res["id"])
	suite.Equal("sum", res["method"])
	suite.Equal(200.0, res["status"])
	suite.Equal(map[string]interface{}{"result": 4.0}, res["data"])
	suite.True(suite.server.IsConnected())
}

func (suite *WSJsonServerTestSuite) TestBindError() {
	conn := suite.accept()
	defer conn.Close()

	res := suite.call(conn, `{"id":2,"method":"sum","params":{"a":"two","b":2}}`)
	suite.Equal(400.0, res["status"])
	suite.Contains(res["data"].(map[string]interface{})["message"], "invalid request")
}

func (suite *WSJsonServerTestSuite) TestDivByZero() {
	conn := suite.accept()
	defer conn.Close()

	res := suite.call(conn, `{"id":6,"method":"div","params":{"dividend":4,"divisor":0}}`)
	suite.Equal(400.0, res["status"])
	suite.Equal("division by zero", res["data"].(map[string]interface{})["message"])

	res = suite.call(conn, `{"id":7,"method":"div","params":{"dividend":4,"divisor":2}}`)
	suite.Equal(200.0, res["status"])
	suite.Equal(map[string]interface{}{"result": 2.0}, res["data"])
}

func (suite *WSJsonServerTestSuite) TestUnknownMethod() {
	conn := suite.accept()
	defer conn.Close()

	res := suite.call(conn, `{"id":3,"method":"pow","params":{}}`)
	suite.Equal(500.0, res["status"])
	suite.Equal("unhandled method: pow", res["data"].(map[string]interface{})["message"])
}

func (suite *WSJsonServerTestSuite) TestInvalidJSON() {
	conn := suite.accept()
	defer conn.Close()

	res := suite.call(conn, `{`)
	suite.Equal(400.0, res["status"])

	res = suite.call(conn, `{"id":4,"method":"sum","params":{"a":1,"b":1}}`)
	suite.Equal(200.0, res["status"])
}

func (suite *WSJsonServerTestSuite) TestReconnect() {
	first := suite.accept()
	suite.NoError(first.Close())

	second := suite.accept()
	defer second.Close()

	res := suite.call(second, `{"id":5,"method":"sum","params":{"a":1,"b":2}}`)
	suite.Equal(200.0, res["status"])
	suite.Equal(map[string]interface{}{"result": 3.0}, res["data"])
}

func TestWSJsonServer(t *testing.T) {
	suite.Run(t, new(WSJsonServerTestSuite))
}

func TestNewInvalidURI(t *testing.T) {
	_, err := wsjson.New("://bad", validator.New())
	require.Error(t, err)
}

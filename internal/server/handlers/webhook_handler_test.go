package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

type fakeMessaging struct {
	payloads []models.WebhookPayload
	sent     []models.OutboundMessageRequest
	err      error
}

func (m *fakeMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != "verify" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (m *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

func (m *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	m.sent = append(m.sent, req)
	return m.err
}

func webhookEngine(svc *fakeMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookVerify(t *testing.T) {
	r := webhookEngine(&fakeMessaging{})

	w := serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify&hub.challenge=1158201444", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1158201444", w.Body.String())

	w = serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookReceive(t *testing.T) {
	svc := &fakeMessaging{}
	r := webhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","messages":[{"from":"221770000000","id":"wamid.1","type":"text","text":{"body":"/report 2024-01-01"}}]}}]}]}`
	w := serve(r, http.MethodPost, "/webhook", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.payloads, 1)
	msg := svc.payloads[0].Entry[0].Changes[0].Value.Messages[0]
	assert.Equal(t, "/report 2024-01-01", msg.Text.Body)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/webhook", "{").Code)

	svc.err = errors.New("send failed")
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/webhook", body).Code)
}

func TestSendMessage(t *testing.T) {
	svc := &fakeMessaging{}
	r := webhookEngine(svc)

	w := serve(r, http.MethodPost, "/send-message", `{"to":"1","message":"hello"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, svc.sent, 1)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/send-message", `{"to":"1"}`).Code)

	svc.err = errors.New("down")
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodPost, "/send-message", `{"to":"1","message":"x"}`).Code)
}

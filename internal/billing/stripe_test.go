package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

func sign(t *testing.T, payload string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	return signed.Header
}

func TestStripeParseEvent(t *testing.T) {
	p := NewStripeProvider("sk_test_x", testWebhookSecret)

	t.Run("subscription deleted", func(t *testing.T) {
		payload := `{"id":"evt_1","object":"event","type":"customer.subscription.deleted","data":{"object":{
			"id":"sub_1","object":"subscription","customer":"cus_1","status":"canceled",
			"metadata":{"userId":"acc-1"},
			"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_vip","object":"price"}}]}
		}}}`
		ev, err := p.ParseEvent([]byte(payload), sign(t, payload))
		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		require.NotNil(t, ev.Subscription)
		assert.Equal(t, "cus_1", ev.Subscription.CustomerID)
		assert.Equal(t, "acc-1", ev.Subscription.Metadata["userId"])
		assert.True(t, ev.Subscription.HasPrice("price_vip"))
		assert.True(t, ev.Subscription.Terminal())
	})

	t.Run("checkout completed", func(t *testing.T) {
		payload := `{"id":"evt_2","object":"event","type":"checkout.session.completed","data":{"object":{
			"id":"cs_1","object":"checkout.session","customer":"cus_2","subscription":"sub_2",
			"client_reference_id":"acc-2","metadata":{"userId":"acc-2"}
		}}}`
		ev, err := p.ParseEvent([]byte(payload), sign(t, payload))
		require.NoError(t, err)
		require.NotNil(t, ev.Checkout)
		assert.Equal(t, "cus_2", ev.Checkout.CustomerID)
		assert.Equal(t, "sub_2", ev.Checkout.SubscriptionID)
	})

	t.Run("bad signature", func(t *testing.T) {
		payload := `{"id":"evt_3","object":"event","type":"invoice.paid","data":{"object":{}}}`
		_, err := p.ParseEvent([]byte(payload), "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := p.ParseEvent([]byte(`{}`), "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestSubscriptionStatus(t *testing.T) {
	for status, entitles := range map[string]bool{"active": true, "trialing": true, "past_due": false, "canceled": false} {
		assert.Equal(t, entitles, Subscription{Status: status}.Entitles(), status)
	}
	assert.True(t, Subscription{Status: "incomplete_expired"}.Terminal())
	assert.False(t, Subscription{Status: "past_due"}.Terminal())
}

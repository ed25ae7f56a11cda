package dial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingValidateRequiresOneDestination(t *testing.T) {
	assert.ErrorIs(t, Setting{}.Validate(), ErrNoDestination)
	assert.ErrorIs(t, Setting{PhoneNumber: "+15551234567", SIPURI: "sip:x@y"}.Validate(), ErrAmbiguousDestination)
	assert.ErrorIs(t, Setting{SIPURI: "sip:x@y", CallerID: "+15559876543"}.Validate(), ErrCallerIDWithoutNumber)
}

func TestSettingValidateAcceptsPhoneForms(t *testing.T) {
	assert.NoError(t, Setting{PhoneNumber: "+15551234567"}.Validate())
	assert.NoError(t, Setting{PhoneNumber: "+15551234567", CallerID: "+15559876543"}.Validate())
}

func TestSettingValidateAcceptsSIPURI(t *testing.T) {
	assert.NoError(t, Setting{SIPURI: "sip:bot@example.com"}.Validate())
	assert.NoError(t, Setting{SIPURI: "sips:bot@example.com:5061"}.Validate())
}

func TestSettingValidateRejectsBadPhone(t *testing.T) {
	assert.Error(t, Setting{PhoneNumber: "extension-12"}.Validate())
	assert.Error(t, Setting{PhoneNumber: "+15551234567", CallerID: "not-a-number"}.Validate())
}

func TestSettingRequestShape(t *testing.T) {
	req := Setting{PhoneNumber: "+1555", CallerID: "+1999"}.Request()
	assert.Equal(t, "+1555", req.PhoneNumber)
	assert.Equal(t, "+1999", req.CallerID)
	assert.Empty(t, req.SIPURI)

	req = Setting{PhoneNumber: "+1555"}.Request()
	assert.Equal(t, "+1555", req.PhoneNumber)
	assert.Empty(t, req.CallerID)

	req = Setting{SIPURI: "sip:x@y"}.Request()
	assert.Equal(t, "sip:x@y", req.SIPURI)
	assert.Empty(t, req.PhoneNumber)
	assert.Empty(t, req.CallerID)
}

func TestParseSettings(t *testing.T) {
	data := []byte(`[
		{"phoneNumber": "+15551234567", "callerId": "+15559876543"},
		{"sipUri": "sip:bot@example.com"}
	]`)

	settings, err := ParseSettings(data)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "+15551234567", settings[0].PhoneNumber)
	assert.Equal(t, "+15559876543", settings[0].CallerID)
	assert.Equal(t, "sip:bot@example.com", settings[1].SIPURI)
}

func TestParseSettingsRejectsInvalidEntry(t *testing.T) {
	_, err := ParseSettings([]byte(`[{"phoneNumber": "+15551234567", "sipUri": "sip:x@y"}]`))
	assert.ErrorIs(t, err, ErrAmbiguousDestination)

	_, err = ParseSettings([]byte(`{"phoneNumber": "+15551234567"}`))
	assert.Error(t, err)
}

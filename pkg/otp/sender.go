// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package otp

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
)

// Sender delivers a passcode to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender only logs the passcode. Development use.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, code string) error {
	log.Warnf("SMS simulation, passcode for %s: %s", phone, code)
	return nil
}

// TwilioSender sends the passcode by SMS through the Twilio messaging api.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	body   string
}

// NewTwilioSender returns a sender using the Twilio account of the configuration.
func NewTwilioSender(c conf.Twilio) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: c.AccountSid,
		Password: c.AuthToken,
	})
	body := c.Body
	if !strings.Contains(body, "%s") {
		body += " %s"
	}
	return &TwilioSender{client: client, from: c.From, body: body}
}

func (t *TwilioSender) Send(ctx context.Context, phone, code string) error {
	// the twilio client does not take a context
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetBody(fmt.Sprintf(t.body, code))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid != nil {
		log.Debugf("Passcode sent to %s, message sid %s", phone, *resp.Sid)
	}
	return nil
}

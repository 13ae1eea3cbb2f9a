package email

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Sender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender               string
	welcomeTemplate      string
	confirmationTemplate string
	confirmationBaseUrl  url.URL
}

func NewSender(
	awsConfig aws.Config,
	sender string,
	welcomeTemplate string,
	confirmationTemplate string,
	confirmationBaseUrl url.URL,
) *Sender {
	return &Sender{
		ses:                  ses.NewFromConfig(awsConfig),
		sender:               sender,
		welcomeTemplate:      welcomeTemplate,
		confirmationTemplate: confirmationTemplate,
		confirmationBaseUrl:  confirmationBaseUrl,
	}
}

func (s *Sender) SendWelcome(ctx context.Context, u user.User, t c.Optional[token.Token]) error {
	params := welcomeTemplateParams{Username: string(u.Username)}
	if t.IsPresent {
		params.ConfirmationUrl = s.confirmationUrl(u, t.Value)
	}
	return s.sendTemplated(ctx, u, s.welcomeTemplate, params)
}

func (s *Sender) SendConfirmation(ctx context.Context, u user.User, t token.Token) error {
	params := confirmationTemplateParams{
		Username:        string(u.Username),
		ConfirmationUrl: s.confirmationUrl(u, t),
	}
	return s.sendTemplated(ctx, u, s.confirmationTemplate, params)
}

func (s *Sender) confirmationUrl(u user.User, t token.Token) string {
	confirmationUrl := s.confirmationBaseUrl
	query := confirmationUrl.Query()
	query.Set("user", strconv.FormatInt(int64(u.ID), 10))
	query.Set("code", string(t.Code))
	confirmationUrl.RawQuery = query.Encode()
	return confirmationUrl.String()
}

func (s *Sender) sendTemplated(ctx context.Context, u user.User, template string, params interface{}) error {
	templateParamsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &template,
			TemplateData: &templateParams,
		},
	)
	return err
}

type welcomeTemplateParams struct {
	Username        string `json:"username"`
	ConfirmationUrl string `json:"confirmationUrl,omitempty"`
}

type confirmationTemplateParams struct {
	Username        string `json:"username"`
	ConfirmationUrl string `json:"confirmationUrl"`
}

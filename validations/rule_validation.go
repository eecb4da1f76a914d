package validations

import (
	"context"

	domainRule "github.com/AzielCF/az-reply/domains/rule"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateRule(ctx context.Context, request domainRule.CreateRuleRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Keyword, validation.Required, validation.Length(1, domainRule.MaxKeywordLength)),
		validation.Field(&request.Reply, validation.Required, validation.Length(1, domainRule.MaxReplyLength)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

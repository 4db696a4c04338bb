// Package eks implements the AWS provider driver on top of EKS and EC2.
//
// A driver instance is bound to one resolved credential and one region. The
// port adapters construct a fresh instance per operation, so static keys
// rotated in the credential store take effect on the next call without any
// cache invalidation.
package eks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	providerdrv "github.com/stratokube/strato/adapters/drivers/provider"
	"github.com/stratokube/strato/domain/model"
)

// driver implements the AWS provider driver.
type driver struct {
	region string
	eks    *eks.Client
	ec2    *ec2.Client
	sts    *sts.Client
}

// ID returns the provider identifier.
func (d *driver) ID() string { return string(model.ProviderAWS) }

// init registers the AWS driver.
func init() {
	providerdrv.Register(model.ProviderAWS, func(ctx context.Context, cred *model.ResolvedCredential, region string) (providerdrv.Driver, error) {
		accessKey := cred.Get("access_key")
		secretKey := cred.Get("secret_key")
		if accessKey == "" || secretKey == "" {
			return nil, model.NewValidationError("credential", "aws credential requires access_key and secret_key")
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		return &driver{
			region: region,
			eks:    eks.NewFromConfig(cfg),
			ec2:    ec2.NewFromConfig(cfg),
			sts:    sts.NewFromConfig(cfg),
		}, nil
	})
}

// accountID returns the AWS account of the bound credential.
func (d *driver) accountID(ctx context.Context) (string, error) {
	out, err := d.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", d.wrapErr("get_caller_identity", err)
	}
	return aws.ToString(out.Account), nil
}

// defaultRoleARN derives the control-plane or node IAM role ARN from the
// account identity when a spec omits it.
func (d *driver) defaultRoleARN(ctx context.Context, roleName string) (string, error) {
	account, err := d.accountID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", account, roleName), nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	envVarsPrefix = "/tenantnotes/prod/"
	ssmRegion     = "us-east-2"
)

// ParameterStore is the subset of the SSM client used to load production variables.
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadEnvironment populates the process environment before Load is called.
// Production reads from AWS SSM Parameter Store, everything else from an
// optional .env file.
func LoadEnvironment(ctx context.Context) error {
	if os.Getenv("GO_ENV") != "production" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(ssmRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}
	return LoadFromParameterStore(ctx, ssm.NewFromConfig(cfg), envVarsPrefix)
}

// LoadFromParameterStore exports every parameter under 'prefix' as an
// environment variable named after the rest of its path.
func LoadFromParameterStore(ctx context.Context, store ParameterStore, prefix string) error {
	var loaded int
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	}

	for {
		out, err := store.GetParametersByPath(ctx, input)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			name := aws.ToString(param.Name)
			if len(name) <= len(prefix) {
				continue
			}

			if err = os.Setenv(name[len(prefix):], aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable: %w", err)
			}
			loaded++
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

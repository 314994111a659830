package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/luminshop/payments/pkg/config"
	"github.com/luminshop/payments/pkg/types"
)

// Publisher 把支付完成事件发到SQS，供下游履约系统消费
type Publisher struct {
	client   *sqs.Client
	queueURL string
}

var publisher *Publisher

// Init 按配置创建SQS客户端；未启用时保持nil，Publish变成空操作
func Init(ctx context.Context) error {
	if config.Config == nil || !config.Config.Notify.Enabled {
		return nil
	}

	var cfg aws.Config
	var err error

	if config.Config.Notify.AWSAccessKey != "" && config.Config.Notify.AWSSecret != "" {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.Config.Notify.AWSAccessKey,
				config.Config.Notify.AWSSecret,
				"",
			)),
		)
	} else {
		// 回退到默认凭证链
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	publisher = &Publisher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: config.Config.Notify.SQSQueueURL,
	}
	log.Printf("Payment notify publisher initialized for queue: %s", publisher.queueURL)
	return nil
}

// PublishPaymentCompleted 发送失败只记日志，不影响支付结果返回
func PublishPaymentCompleted(event *types.PaymentCompletedEvent) {
	if publisher == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal payment completed event: %v", err)
		return
	}

	_, err = publisher.client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(publisher.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		log.Printf("Failed to publish payment completed event: %v", err)
	}
}

package config

type CommenceConfig struct {
	// 站点根地址，用于拼接回调URL
	BaseURL string `cfg:"BASE_URL"`

	// 数据库连接，为空时不记录支付流水
	DatabaseDSN string `cfg:"DATABASE_DSN"`

	// 浏览器回跳页面
	OrderResultURL   string `cfg:"ORDER_RESULT_URL" default:"/order/result"`
	PaymentFailedURL string `cfg:"PAYMENT_FAILED_URL" default:"/payment/failed"`

	// 支付网关配置
	Gateway struct {
		APIKey         string `cfg:"API_KEY"`
		SecretKey      string `cfg:"SECRET_KEY"`
		BaseURL        string `cfg:"BASE_URL" default:"https://sandbox-api.cardeon.io"`
		TimeoutSeconds int    `cfg:"TIMEOUT_SECONDS" default:"30"`
	} `cfg:"GATEWAY"`

	// 回调关联上下文存储，Addr为空时使用进程内存储
	Redis struct {
		Addr           string `cfg:"ADDR"`
		Password       string `cfg:"PASSWORD"`
		DB             int    `cfg:"DB" default:"0"`
		ContextTTLMins int    `cfg:"CONTEXT_TTL_MINS" default:"30"`
	} `cfg:"REDIS"`

	// 支付完成通知配置
	Notify struct {
		Enabled      bool   `cfg:"ENABLED" default:"false"`
		AWSRegion    string `cfg:"AWS_REGION"`
		AWSAccessKey string `cfg:"AWS_ACCESS_KEY"`
		AWSSecret    string `cfg:"AWS_SECRET"`
		SQSQueueURL  string `cfg:"SQS_QUEUE_URL"`
	} `cfg:"NOTIFY"`
}

var Config *CommenceConfig

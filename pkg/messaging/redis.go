package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Publisher 채널로 메시지를 발행하는 인터페이스
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// RedisClient Redis pub/sub 클라이언트
type RedisClient interface {
	Publisher
	Close() error
}

// RedisConfig Redis 연결 설정
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// ChannelPrefix 발행 채널 앞에 붙는 접두사 (예: "semo.")
	ChannelPrefix string `yaml:"channel_prefix"`
}

// Envelope 발행되는 메시지의 공통 포맷
type Envelope struct {
	Channel     string      `json:"channel"`
	PublishedAt time.Time   `json:"published_at"`
	Data        interface{} `json:"data"`
}

type redisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient Redis 클라이언트를 생성하고 연결을 확인합니다
func NewRedisClient(cfg RedisConfig) (RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis 연결 실패: %w", err)
	}

	return &redisClient{client: client, prefix: cfg.ChannelPrefix}, nil
}

// Publish 메시지를 Envelope로 감싸 JSON으로 발행합니다
func (r *redisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	channel = r.prefix + channel
	payload, err := json.Marshal(Envelope{
		Channel:     channel,
		PublishedAt: time.Now().UTC(),
		Data:        message,
	})
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("메시지 발행 실패 (%s): %w", channel, err)
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

// NopPublisher Redis가 설정되지 않았을 때 사용하는 빈 구현
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

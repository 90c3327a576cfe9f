package message

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

func NewPostgresPublisher(db *sqlx.DB, watermillLogger watermill.LoggerAdapter) (message.Publisher, error) {
	return sql.NewPublisher(
		db,
		sql.PublisherConfig{
			SchemaAdapter:        sql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		watermillLogger,
	)
}

func NewPostgresSubscriber(db *sqlx.DB, consumerGroup string, watermillLogger watermill.LoggerAdapter) (message.Subscriber, error) {
	return sql.NewSubscriber(
		db,
		sql.SubscriberConfig{
			ConsumerGroup:    consumerGroup,
			SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
		},
		watermillLogger,
	)
}

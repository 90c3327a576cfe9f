package db

var schema = `
CREATE TABLE IF NOT EXISTS events (
    event_id UUID PRIMARY KEY,
    published_at TIMESTAMP NOT NULL,
    event_name VARCHAR(255) NOT NULL,
    event_payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS read_model_event_sales (
    event_id BIGINT PRIMARY KEY,
    payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS read_model_sales_purchases (
    run_id VARCHAR(255) NOT NULL,
    purchase_id BIGINT NOT NULL,
    event_id BIGINT NOT NULL,
    PRIMARY KEY (run_id, purchase_id)
);
`

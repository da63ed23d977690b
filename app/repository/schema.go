package repository

import "context"

// Schema holds the DDL applied by the migrate command. Statements are
// idempotent so migrate can run on every deploy.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) NOT NULL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		locale VARCHAR(8) NOT NULL DEFAULT 'de',
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		code VARCHAR(64) NOT NULL,
		type VARCHAR(16) NOT NULL,
		name_de VARCHAR(255) NOT NULL,
		name_en VARCHAR(255) NOT NULL,
		price_cents BIGINT NOT NULL,
		currency CHAR(3) NOT NULL DEFAULT 'EUR',
		metadata_json TEXT NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_products_code (code)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		amount_cents BIGINT NOT NULL,
		currency CHAR(3) NOT NULL DEFAULT 'EUR',
		status VARCHAR(16) NOT NULL DEFAULT 'created',
		provider VARCHAR(32) NOT NULL,
		provider_ref VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_orders_provider_ref (provider, provider_ref),
		KEY idx_orders_user (user_id),
		KEY idx_orders_status_created (status, created_at)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS payment_events (
		id CHAR(36) NOT NULL PRIMARY KEY,
		provider VARCHAR(32) NOT NULL,
		event_id VARCHAR(255) NOT NULL,
		type VARCHAR(64) NOT NULL,
		payload_json MEDIUMTEXT NOT NULL,
		received_at DATETIME(6) NOT NULL,
		processed_at DATETIME(6) NULL,
		UNIQUE KEY uq_payment_events_event_id (event_id),
		KEY idx_payment_events_unprocessed (processed_at, received_at)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS entitlements (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		qty_total INT NOT NULL,
		qty_used INT NOT NULL DEFAULT 0,
		valid_from DATETIME(6) NOT NULL,
		valid_to DATETIME(6) NULL,
		source_order_id CHAR(36) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_entitlements_order_kind (source_order_id, kind),
		KEY idx_entitlements_user_kind (user_id, kind)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS slots (
		id CHAR(36) NOT NULL PRIMARY KEY,
		consultant_id CHAR(36) NOT NULL,
		starts_at DATETIME(6) NOT NULL,
		duration_min INT NOT NULL DEFAULT 60,
		title VARCHAR(255) NOT NULL,
		meeting_provider VARCHAR(32) NOT NULL DEFAULT 'zoom',
		meeting_url VARCHAR(512) NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'open',
		created_at DATETIME(6) NOT NULL,
		KEY idx_slots_status_starts (status, starts_at)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		slot_id CHAR(36) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'confirmed',
		client_note TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_bookings_slot (slot_id),
		KEY idx_bookings_user (user_id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS ai_sessions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		locale VARCHAR(8) NOT NULL DEFAULT 'de',
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		started_at DATETIME(6) NOT NULL,
		closed_at DATETIME(6) NULL,
		KEY idx_ai_sessions_user (user_id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS ai_messages (
		id CHAR(36) NOT NULL PRIMARY KEY,
		session_id CHAR(36) NOT NULL,
		role VARCHAR(16) NOT NULL,
		content MEDIUMTEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_ai_messages_session (session_id, created_at)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS ai_evaluations (
		id CHAR(36) NOT NULL PRIMARY KEY,
		session_id CHAR(36) NOT NULL,
		message_id CHAR(36) NOT NULL,
		rubric_scores_json TEXT NOT NULL,
		summary_feedback TEXT NOT NULL,
		detected_issues_json TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_ai_evaluations_session (session_id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS topics (
		id CHAR(36) NOT NULL PRIMARY KEY,
		slug VARCHAR(64) NOT NULL,
		title_de VARCHAR(255) NOT NULL,
		title_en VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_topics_slug (slug)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS questions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		topic_id CHAR(36) NOT NULL,
		level INT NOT NULL,
		question_de TEXT NOT NULL,
		question_en TEXT NOT NULL,
		intent VARCHAR(64) NOT NULL,
		tags_json TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_questions_level (level)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS diagnostic_submissions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		user_id CHAR(36) NULL,
		reasons_json TEXT NOT NULL,
		other_reason TEXT NULL,
		situation TEXT NOT NULL,
		history TEXT NOT NULL,
		goal TEXT NOT NULL,
		recommended_plan VARCHAR(16) NOT NULL,
		created_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB`,
}

// Migrate applies the schema statements in order.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.sqlDB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

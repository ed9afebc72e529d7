package postgres

const schemaDDL = `
CREATE TABLE IF NOT EXISTS accounts (
	id            uuid PRIMARY KEY,
	email         text NOT NULL,
	name          text NOT NULL DEFAULT '',
	password_hash text NOT NULL,
	account_type  text NOT NULL DEFAULT 'user',
	is_active     boolean NOT NULL DEFAULT true,
	created_on    timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_uq ON accounts (email);

-- email is deliberately not unique here: losing the confirmation email and
-- registering again creates a second pending row with a fresh token.
CREATE TABLE IF NOT EXISTS unconfirmed_accounts (
	id               uuid NOT NULL,
	email            text NOT NULL,
	password_hash    text NOT NULL,
	activation_token text PRIMARY KEY,
	created_on       timestamptz NOT NULL,
	expire_on        timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS unconfirmed_accounts_email_ix ON unconfirmed_accounts (email);

CREATE TABLE IF NOT EXISTS recover_requests (
	email       text NOT NULL,
	user_id     uuid NOT NULL,
	reset_token text PRIMARY KEY,
	created_on  timestamptz NOT NULL,
	expire_on   timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS recover_requests_email_ix ON recover_requests (email);

CREATE TABLE IF NOT EXISTS email_migration_codes (
	user_id            uuid NOT NULL REFERENCES accounts (id),
	new_email          text NOT NULL,
	old_email          text NOT NULL,
	confirmation_token text NOT NULL,
	PRIMARY KEY (user_id, confirmation_token)
);

CREATE TABLE IF NOT EXISTS pois (
	id            uuid PRIMARY KEY,
	user_id       uuid NOT NULL REFERENCES accounts (id),
	creation_time timestamptz NOT NULL,
	title         text NOT NULL,
	poi_type      text NOT NULL,
	latitude      double precision NOT NULL,
	longitude     double precision NOT NULL,
	description   text NOT NULL DEFAULT '',
	vote_score    integer NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS poi_votes (
	poi_id     uuid NOT NULL REFERENCES pois (id) ON DELETE CASCADE,
	user_id    uuid NOT NULL REFERENCES accounts (id),
	vote_value integer NOT NULL,
	PRIMARY KEY (poi_id, user_id)
);

CREATE TABLE IF NOT EXISTS flappybird_scores (
	id            uuid PRIMARY KEY,
	user_id       uuid NOT NULL REFERENCES accounts (id),
	value         integer NOT NULL,
	creation_time timestamptz NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS flappybird_scores_user_uq ON flappybird_scores (user_id);
`

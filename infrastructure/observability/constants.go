package observability

// Metric name prefixes
const (
	MetricPrefix = "fortuneblock"
)

// Metric names
const (
	// Discord metrics
	CommandsHandledTotal = MetricPrefix + ".discord.commands_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// Lottery metrics
	LotteriesActive = MetricPrefix + ".lotteries.active"

	// Contract transaction metrics
	ContractTransactionsTotal = MetricPrefix + ".contract.transactions_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelCommand   = "command"
	LabelEventType = "event_type"
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelRoute     = "route"
	LabelStatus    = "status"
)

// Transaction outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeReverted = "reverted"
)

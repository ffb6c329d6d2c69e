package sorobanrpc

// Transaction statuses reported by getTransaction.
const (
	TransactionStatusSuccess  = "SUCCESS"
	TransactionStatusNotFound = "NOT_FOUND"
	TransactionStatusFailed   = "FAILED"
)

// Submission statuses reported by sendTransaction.
const (
	SendStatusPending       = "PENDING"
	SendStatusDuplicate     = "DUPLICATE"
	SendStatusTryAgainLater = "TRY_AGAIN_LATER"
	SendStatusError         = "ERROR"
)

type GetLatestLedgerResponse struct {
	// Hash of the latest ledger as a hex-encoded string
	Hash string `json:"id"`
	// Stellar Core protocol version associated with the ledger.
	ProtocolVersion uint32 `json:"protocolVersion"`
	// Sequence number of the latest ledger.
	Sequence uint32 `json:"sequence"`
}

type GetNetworkResponse struct {
	FriendbotURL    string `json:"friendbotUrl,omitempty"`
	Passphrase      string `json:"passphrase"`
	ProtocolVersion int    `json:"protocolVersion"`
}

type SimulateTransactionRequest struct {
	Transaction string `json:"transaction"`
}

type SimulateTransactionCost struct {
	CPUInstructions uint64 `json:"cpuInsns,string"`
	MemoryBytes     uint64 `json:"memBytes,string"`
}

// SimulateHostFunctionResult holds the result of the single host function
// invoked by a simulated transaction.
type SimulateHostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

type RestorePreamble struct {
	TransactionData string `json:"transactionData"` // SorobanTransactionData XDR in base64
	MinResourceFee  int64  `json:"minResourceFee,string"`
}

type SimulateTransactionResponse struct {
	Error string `json:"error,omitempty"`
	// SorobanTransactionData XDR in base64
	TransactionData string `json:"transactionData,omitempty"`
	MinResourceFee  int64  `json:"minResourceFee,string,omitempty"`
	// DiagnosticEvent XDR in base64
	Events  []string                     `json:"events,omitempty"`
	Results []SimulateHostFunctionResult `json:"results,omitempty"`
	Cost    SimulateTransactionCost      `json:"cost,omitempty"`
	// Present when archived entries must be restored first.
	RestorePreamble *RestorePreamble `json:"restorePreamble,omitempty"`
	LatestLedger    uint32           `json:"latestLedger"`
}

type SendTransactionRequest struct {
	// Transaction is the base64 encoded transaction envelope.
	Transaction string `json:"transaction"`
}

type SendTransactionResponse struct {
	// ErrorResultXDR is present only if Status is equal to SendStatusError.
	ErrorResultXDR        string   `json:"errorResultXdr,omitempty"`
	DiagnosticEventsXDR   []string `json:"diagnosticEventsXdr,omitempty"`
	Status                string   `json:"status"`
	Hash                  string   `json:"hash"`
	LatestLedger          uint32   `json:"latestLedger"`
	LatestLedgerCloseTime int64    `json:"latestLedgerCloseTime,string"`
}

type GetTransactionRequest struct {
	Hash string `json:"hash"`
}

type GetTransactionResponse struct {
	// Status is one of TransactionStatusSuccess, TransactionStatusNotFound or
	// TransactionStatusFailed.
	Status                string `json:"status"`
	LatestLedger          uint32 `json:"latestLedger"`
	LatestLedgerCloseTime int64  `json:"latestLedgerCloseTime,string"`
	OldestLedger          uint32 `json:"oldestLedger"`
	OldestLedgerCloseTime int64  `json:"oldestLedgerCloseTime,string"`

	// The fields below are only present if Status is not TransactionStatusNotFound.

	ApplicationOrder int32  `json:"applicationOrder,omitempty"`
	FeeBump          bool   `json:"feeBump,omitempty"`
	EnvelopeXdr      string `json:"envelopeXdr,omitempty"`
	ResultXdr        string `json:"resultXdr,omitempty"`
	ResultMetaXdr    string `json:"resultMetaXdr,omitempty"`
	Ledger           uint32 `json:"ledger,omitempty"`
	LedgerCloseTime  int64  `json:"createdAt,string,omitempty"`
}

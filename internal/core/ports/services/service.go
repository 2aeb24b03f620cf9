package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the invocation shell and the HTTP handlers.
type ServiceContainer struct {
	Pipeline     PipelineSvcFacade
	Credentials  CredentialResolverSvc
	Ledger       LedgerSvc
	Transactions TransactionSvc
}

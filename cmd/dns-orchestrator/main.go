// Command dns-orchestrator is the CLI entrypoint: it parses flags,
// assembles the service-context composition root against a
// file-backed data directory, runs the startup sequence (credential
// migration followed by account restoration), and
// dispatches a handful of kingpin subcommands exercising the account,
// domain and diagnostic-toolbox services. A richer front-end (MCP tool
// surface, TUI, RPC) is out of scope here: every service stays
// transport-agnostic, and this binary is one thin caller among
// several possible ones.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/sirupsen/logrus"

	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/config"
	"github.com/ZnLuAr/dns-orchestrator-sub000/internal/dnsmodel"
	"github.com/ZnLuAr/dns-orchestrator-sub000/registry"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/account"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/dns"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/domain"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/importexport"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/metadata"
	"github.com/ZnLuAr/dns-orchestrator-sub000/service/migration"
	"github.com/ZnLuAr/dns-orchestrator-sub000/servicectx"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/accountrepo"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/credstore"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/metadatarepo"
	"github.com/ZnLuAr/dns-orchestrator-sub000/toolbox"
)

func main() {
	app := kingpin.New("dns-orchestrator", "Multi-tenant DNS management engine")
	cfg := config.New()

	startupCmd := app.Command("startup", "run credential migration then restore all accounts into the registry").Default()

	accountsCmd := app.Command("accounts", "manage provider accounts")
	accountsListCmd := accountsCmd.Command("list", "list all accounts")
	accountsCreateCmd := accountsCmd.Command("create", "register a new account")
	var (
		createName     string
		createProvider string
		createFields   map[string]string
	)
	accountsCreateCmd.Flag("name", "account display name").Required().StringVar(&createName)
	accountsCreateCmd.Flag("provider", "cloudflare, aliyun, dnspod or huaweicloud").Required().StringVar(&createProvider)
	accountsCreateCmd.Flag("field", "credential field as key=value, repeatable").StringMapVar(&createFields)

	domainsCmd := app.Command("domains", "inspect provider zones")
	domainsListCmd := domainsCmd.Command("list", "list domains for an account")
	var domainsAccountID string
	var domainsPage, domainsPageSize int
	domainsListCmd.Flag("account", "account id").Required().StringVar(&domainsAccountID)
	domainsListCmd.Flag("page", "page number").Default("1").IntVar(&domainsPage)
	domainsListCmd.Flag("page-size", "page size").Default("20").IntVar(&domainsPageSize)

	recordsCmd := app.Command("records", "manage DNS records within a domain")
	recordsListCmd := recordsCmd.Command("list", "list records for a domain")
	var recordsAccountID, recordsDomainID, recordsKeyword, recordsType string
	var recordsPage, recordsPageSize int
	recordsListCmd.Flag("account", "account id").Required().StringVar(&recordsAccountID)
	recordsListCmd.Flag("domain", "domain id").Required().StringVar(&recordsDomainID)
	recordsListCmd.Flag("keyword", "filter by name substring").StringVar(&recordsKeyword)
	recordsListCmd.Flag("type", "filter by record type").StringVar(&recordsType)
	recordsListCmd.Flag("page", "page number").Default("1").IntVar(&recordsPage)
	recordsListCmd.Flag("page-size", "page size").Default("20").IntVar(&recordsPageSize)

	recordsCreateCmd := recordsCmd.Command("create", "create a record")
	var (
		createAccountID, createDomainID, createRecName, createRecType, createValue string
		createTTL                                                                  int
		createPriority, createWeight, createPort                                   int
	)
	recordsCreateCmd.Flag("account", "account id").Required().StringVar(&createAccountID)
	recordsCreateCmd.Flag("domain", "domain id").Required().StringVar(&createDomainID)
	recordsCreateCmd.Flag("name", "record name, \"@\" for the apex").Required().StringVar(&createRecName)
	recordsCreateCmd.Flag("type", "A, AAAA, CNAME, MX, TXT, NS, SRV or CAA").Required().StringVar(&createRecType)
	recordsCreateCmd.Flag("ttl", "seconds").Default("300").IntVar(&createTTL)
	recordsCreateCmd.Flag("value", "address/target/text, depending on type").Required().StringVar(&createValue)
	recordsCreateCmd.Flag("priority", "MX/SRV priority").IntVar(&createPriority)
	recordsCreateCmd.Flag("weight", "SRV weight").IntVar(&createWeight)
	recordsCreateCmd.Flag("port", "SRV port").IntVar(&createPort)

	recordsDeleteCmd := recordsCmd.Command("delete", "delete a record")
	var deleteAccountID, deleteDomainID, deleteRecordID string
	recordsDeleteCmd.Flag("account", "account id").Required().StringVar(&deleteAccountID)
	recordsDeleteCmd.Flag("domain", "domain id").Required().StringVar(&deleteDomainID)
	recordsDeleteCmd.Flag("record", "record id").Required().StringVar(&deleteRecordID)

	metadataCmd := app.Command("metadata", "manage per-domain favorites, tags and notes")
	metadataShowCmd := metadataCmd.Command("show", "show a domain's metadata")
	var metaAccountID, metaDomainID string
	metadataShowCmd.Flag("account", "account id").Required().StringVar(&metaAccountID)
	metadataShowCmd.Flag("domain", "domain id").Required().StringVar(&metaDomainID)

	metadataFavoriteCmd := metadataCmd.Command("favorite", "toggle a domain's favorite flag")
	var favAccountID, favDomainID string
	metadataFavoriteCmd.Flag("account", "account id").Required().StringVar(&favAccountID)
	metadataFavoriteCmd.Flag("domain", "domain id").Required().StringVar(&favDomainID)

	metadataTagAddCmd := metadataCmd.Command("tag-add", "add a tag to a domain")
	var tagAddAccountID, tagAddDomainID, tagAddTag string
	metadataTagAddCmd.Flag("account", "account id").Required().StringVar(&tagAddAccountID)
	metadataTagAddCmd.Flag("domain", "domain id").Required().StringVar(&tagAddDomainID)
	metadataTagAddCmd.Flag("tag", "tag to add").Required().StringVar(&tagAddTag)

	metadataTagRemoveCmd := metadataCmd.Command("tag-remove", "remove a tag from a domain")
	var tagRemoveAccountID, tagRemoveDomainID, tagRemoveTag string
	metadataTagRemoveCmd.Flag("account", "account id").Required().StringVar(&tagRemoveAccountID)
	metadataTagRemoveCmd.Flag("domain", "domain id").Required().StringVar(&tagRemoveDomainID)
	metadataTagRemoveCmd.Flag("tag", "tag to remove").Required().StringVar(&tagRemoveTag)

	dnsCmd := app.Command("dns-lookup", "resolve a record over the system or a given nameserver")
	var lookupDomain, lookupType, lookupNameserver string
	dnsCmd.Arg("domain", "domain to query").Required().StringVar(&lookupDomain)
	dnsCmd.Flag("type", "record type, or ALL").Default("A").StringVar(&lookupType)
	dnsCmd.Flag("nameserver", "nameserver IP; defaults to the system resolver").StringVar(&lookupNameserver)

	dnssecCmd := app.Command("dnssec-check", "inspect DNSSEC deployment for a domain")
	var dnssecDomain, dnssecNameserver string
	dnssecCmd.Arg("domain", "domain to query").Required().StringVar(&dnssecDomain)
	dnssecCmd.Flag("nameserver", "nameserver IP; defaults to the system resolver").StringVar(&dnssecNameserver)

	propagationCmd := app.Command("propagation-check", "query the built-in public resolver list for consistency")
	var propagationDomain, propagationType string
	propagationCmd.Arg("domain", "domain to query").Required().StringVar(&propagationDomain)
	propagationCmd.Flag("type", "record type").Default("A").StringVar(&propagationType)

	sslCmd := app.Command("ssl-check", "inspect the TLS certificate served by a domain")
	var sslDomain string
	var sslPort int
	sslCmd.Arg("domain", "domain to connect to").Required().StringVar(&sslDomain)
	sslCmd.Flag("port", "TCP port").Default("443").IntVar(&sslPort)

	headersCmd := app.Command("headers-check", "fetch a URL and audit its security headers")
	var headersURL, headersMethod string
	headersCmd.Arg("url", "URL to fetch").Required().StringVar(&headersURL)
	headersCmd.Flag("method", "HTTP method").Default("GET").StringVar(&headersMethod)

	exportCmd := app.Command("export", "export accounts to a portable .dnso file")
	var exportAccountIDs []string
	var exportOut, exportPassword string
	exportCmd.Flag("account", "account id, repeatable; omit to export all").StringsVar(&exportAccountIDs)
	exportCmd.Flag("out", "output file path").Required().StringVar(&exportOut)
	exportCmd.Flag("password", "encrypt the export with this password").StringVar(&exportPassword)

	importCmd := app.Command("import", "import accounts from a .dnso file")
	var importFile, importPassword string
	importCmd.Arg("file", ".dnso file to import").Required().StringVar(&importFile)
	importCmd.Flag("password", "password for an encrypted file").StringVar(&importPassword)

	cfg.RegisterFlags(app)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := cfg.LoadFile(); err != nil {
		log.Fatal(err)
	}
	configureLogging(cfg)

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatal(err)
	}

	ctx := buildServiceContext(cfg)
	bgCtx := context.Background()

	switch command {
	case startupCmd.FullCommand():
		runStartup(bgCtx, ctx)
	case accountsListCmd.FullCommand():
		runAccountsList(ctx)
	case accountsCreateCmd.FullCommand():
		runAccountsCreate(bgCtx, ctx, createName, createProvider, createFields)
	case domainsListCmd.FullCommand():
		runDomainsList(bgCtx, ctx, domainsAccountID, domainsPage, domainsPageSize)
	case recordsListCmd.FullCommand():
		runRecordsList(bgCtx, ctx, recordsAccountID, recordsDomainID, recordsKeyword, recordsType, recordsPage, recordsPageSize)
	case recordsCreateCmd.FullCommand():
		runRecordsCreate(bgCtx, ctx, createAccountID, createDomainID, createRecName, createRecType, createValue, createTTL, createPriority, createWeight, createPort)
	case recordsDeleteCmd.FullCommand():
		runRecordsDelete(bgCtx, ctx, deleteAccountID, deleteDomainID, deleteRecordID)
	case metadataShowCmd.FullCommand():
		runMetadataShow(ctx, metaAccountID, metaDomainID)
	case metadataFavoriteCmd.FullCommand():
		runMetadataFavorite(ctx, favAccountID, favDomainID)
	case metadataTagAddCmd.FullCommand():
		runMetadataTagAdd(ctx, tagAddAccountID, tagAddDomainID, tagAddTag)
	case metadataTagRemoveCmd.FullCommand():
		runMetadataTagRemove(ctx, tagRemoveAccountID, tagRemoveDomainID, tagRemoveTag)
	case dnsCmd.FullCommand():
		runDNSLookup(bgCtx, lookupDomain, lookupType, lookupNameserver)
	case dnssecCmd.FullCommand():
		runDNSSECCheck(bgCtx, dnssecDomain, dnssecNameserver)
	case propagationCmd.FullCommand():
		runPropagationCheck(bgCtx, propagationDomain, propagationType)
	case sslCmd.FullCommand():
		runSSLCheck(bgCtx, sslDomain, sslPort)
	case headersCmd.FullCommand():
		runHeadersCheck(bgCtx, headersURL, headersMethod)
	case exportCmd.FullCommand():
		runExport(ctx, exportAccountIDs, exportOut, exportPassword)
	case importCmd.FullCommand():
		runImport(importFile, importPassword, ctx)
	}
}

func configureLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}
	log.SetLevel(level)
}

func buildServiceContext(cfg *config.Config) *servicectx.Context {
	accounts := accountrepo.NewFileRepo(cfg.AccountsPath())
	creds := credstore.NewFileStore(cfg.CredentialsPath())
	metadata := metadatarepo.NewFileRepo(cfg.MetadataPath())
	return servicectx.New(accounts, creds, metadata, registry.New())
}

func runStartup(ctx context.Context, svcCtx *servicectx.Context) {
	migrationResult, err := migration.New(svcCtx).Run()
	if err != nil {
		log.Fatalf("credential migration failed: %v", err)
	}
	log.WithFields(log.Fields{
		"status":          migrationResult.Status,
		"migrated_count":  migrationResult.MigratedCount,
		"failed_accounts": len(migrationResult.FailedAccounts),
	}).Info("credential migration complete")

	restoreResult := account.New(svcCtx).RestoreAccounts(ctx)
	log.WithFields(log.Fields{
		"success_count": restoreResult.SuccessCount,
		"error_count":   restoreResult.ErrorCount,
	}).Info("account restoration complete")
}

func runAccountsList(svcCtx *servicectx.Context) {
	accounts, err := account.New(svcCtx).ListAccounts()
	if err != nil {
		log.Fatal(err)
	}
	for _, acct := range accounts {
		fmt.Printf("%s\t%s\t%s\t%s\n", acct.ID, acct.Name, acct.Provider, acct.Status)
	}
}

func runAccountsCreate(ctx context.Context, svcCtx *servicectx.Context, name, providerFlag string, fields map[string]string) {
	kind := dnsmodel.ProviderKind(strings.ToLower(providerFlag))
	creds, err := dnsmodel.CredentialsFromMap(kind, fields)
	if err != nil {
		log.Fatal(err)
	}
	acct, err := account.New(svcCtx).Create(ctx, name, kind, creds)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("created account %s (%s)\n", acct.ID, acct.Name)
}

func runDomainsList(ctx context.Context, svcCtx *servicectx.Context, accountID string, page, pageSize int) {
	resp, err := domain.New(svcCtx).ListDomains(ctx, accountID, dnsmodel.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range resp.Items {
		fmt.Printf("%s\t%s\n", d.ID, d.Name)
	}
	fmt.Printf("page %d/%d, total %d\n", resp.Page, pageCountOf(resp), resp.TotalCount)
}

func pageCountOf(resp dnsmodel.PaginatedResponse[dnsmodel.ProviderDomain]) int {
	if resp.PageSize == 0 {
		return 0
	}
	pages := resp.TotalCount / resp.PageSize
	if resp.TotalCount%resp.PageSize != 0 {
		pages++
	}
	return pages
}

func runRecordsList(ctx context.Context, svcCtx *servicectx.Context, accountID, domainID, keyword, recordType string, page, pageSize int) {
	q := dnsmodel.RecordQueryParams{
		Pagination: dnsmodel.Pagination{Page: page, PageSize: pageSize},
		Keyword:    keyword,
		RecordType: dnsmodel.RecordType(strings.ToUpper(recordType)),
	}
	resp, err := dns.New(svcCtx).ListRecords(ctx, accountID, domainID, q)
	if err != nil {
		log.Fatal(err)
	}
	for _, rec := range resp.Items {
		fmt.Printf("%s\t%s\t%s\t%d\n", rec.ID, rec.Name, rec.Data.Type, rec.TTL)
	}
	fmt.Printf("page %d, total %d\n", resp.Page, resp.TotalCount)
}

func runRecordsCreate(ctx context.Context, svcCtx *servicectx.Context, accountID, domainID, name, recordType, value string, ttl, priority, weight, port int) {
	data, err := buildRecordData(recordType, value, priority, weight, port)
	if err != nil {
		log.Fatal(err)
	}
	rec, err := dns.New(svcCtx).CreateRecord(ctx, accountID, dnsmodel.CreateRecordRequest{
		DomainID: domainID,
		Name:     name,
		TTL:      ttl,
		Data:     data,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("created record %s\n", rec.ID)
}

func runRecordsDelete(ctx context.Context, svcCtx *servicectx.Context, accountID, domainID, recordID string) {
	if err := dns.New(svcCtx).DeleteRecord(ctx, accountID, domainID, recordID); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("deleted record %s\n", recordID)
}

// buildRecordData assembles a dnsmodel.RecordData from the flat CLI
// flags, dispatching on recordType the way the web UI's record form
// would pick fields to send.
func buildRecordData(recordType, value string, priority, weight, port int) (dnsmodel.RecordData, error) {
	rt := dnsmodel.RecordType(strings.ToUpper(recordType))
	switch rt {
	case dnsmodel.TypeA:
		return dnsmodel.RecordData{Type: rt, A: &dnsmodel.ARecord{Address: value}}, nil
	case dnsmodel.TypeAAAA:
		return dnsmodel.RecordData{Type: rt, AAAA: &dnsmodel.AAAARecord{Address: value}}, nil
	case dnsmodel.TypeCNAME:
		return dnsmodel.RecordData{Type: rt, CNAME: &dnsmodel.CNAMERecord{Target: value}}, nil
	case dnsmodel.TypeTXT:
		return dnsmodel.RecordData{Type: rt, TXT: &dnsmodel.TXTRecord{Value: value}}, nil
	case dnsmodel.TypeNS:
		return dnsmodel.RecordData{Type: rt, NS: &dnsmodel.NSRecord{Nameserver: value}}, nil
	case dnsmodel.TypeMX:
		return dnsmodel.RecordData{Type: rt, MX: &dnsmodel.MXRecord{Priority: uint16(priority), Exchange: value}}, nil
	case dnsmodel.TypeSRV:
		return dnsmodel.RecordData{Type: rt, SRV: &dnsmodel.SRVRecord{
			Priority: uint16(priority), Weight: uint16(weight), Port: uint16(port), Target: value,
		}}, nil
	case dnsmodel.TypeCAA:
		return dnsmodel.RecordData{Type: rt, CAA: &dnsmodel.CAARecord{Tag: "issue", Value: value}}, nil
	default:
		return dnsmodel.RecordData{}, fmt.Errorf("unsupported record type %q", recordType)
	}
}

func runMetadataShow(svcCtx *servicectx.Context, accountID, domainID string) {
	m, err := metadata.New(svcCtx).GetMetadata(dnsmodel.DomainMetadataKey{AccountID: accountID, DomainID: domainID})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("favorite=%t color=%s tags=%s note=%q\n", m.IsFavorite, m.Color, strings.Join(m.Tags, ","), m.Note)
}

func runMetadataFavorite(svcCtx *servicectx.Context, accountID, domainID string) {
	isFavorite, err := metadata.New(svcCtx).ToggleFavorite(dnsmodel.DomainMetadataKey{AccountID: accountID, DomainID: domainID})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("favorite=%t\n", isFavorite)
}

func runMetadataTagAdd(svcCtx *servicectx.Context, accountID, domainID, tag string) {
	tags, err := metadata.New(svcCtx).AddTag(dnsmodel.DomainMetadataKey{AccountID: accountID, DomainID: domainID}, tag)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("tags=%s\n", strings.Join(tags, ","))
}

func runMetadataTagRemove(svcCtx *servicectx.Context, accountID, domainID, tag string) {
	tags, err := metadata.New(svcCtx).RemoveTag(dnsmodel.DomainMetadataKey{AccountID: accountID, DomainID: domainID}, tag)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("tags=%s\n", strings.Join(tags, ","))
}

func runDNSLookup(ctx context.Context, domainName, recordType, nameserver string) {
	result, err := toolbox.DNSLookup(ctx, domainName, recordType, nameserver)
	if err != nil {
		log.Fatal(err)
	}
	for _, rec := range result.Records {
		fmt.Printf("%s\t%s\t%d\t%s\n", rec.Type, rec.Name, rec.TTL, rec.Value)
	}
}

func runDNSSECCheck(ctx context.Context, domainName, nameserver string) {
	result, err := toolbox.DNSSECCheck(ctx, domainName, nameserver)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("dnssec_enabled=%t validation_status=%s dnskey=%d ds=%d rrsig=%d\n",
		result.DNSSECEnabled, result.ValidationStatus, len(result.DNSKEYRecords), len(result.DSRecords), len(result.RRSIGRecords))
}

func runPropagationCheck(ctx context.Context, domainName, recordType string) {
	result, err := toolbox.DNSPropagationCheck(ctx, domainName, recordType)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("consistency=%.1f%% unique_values=%d\n", result.ConsistencyPercentage, len(result.UniqueValues))
	for _, serverResult := range result.Results {
		fmt.Printf("%s (%s)\t%s\n", serverResult.Server.Name, serverResult.Server.IP, serverResult.Status)
	}
}

func runSSLCheck(ctx context.Context, domainName string, port int) {
	result, err := toolbox.SSLCheck(ctx, domainName, port)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("connection_status=%s\n", result.ConnectionStatus)
	if result.CertInfo != nil {
		fmt.Printf("subject=%s valid_to=%s days_remaining=%d is_valid=%t\n",
			result.CertInfo.Subject, result.CertInfo.ValidTo, result.CertInfo.DaysRemaining, result.CertInfo.IsValid)
	}
}

func runHeadersCheck(ctx context.Context, url, method string) {
	result, err := toolbox.HTTPHeaderCheck(ctx, toolbox.HTTPHeaderCheckRequest{
		URL:    url,
		Method: toolbox.HTTPMethod(strings.ToUpper(method)),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("status=%d (%s) content_length=%d\n", result.StatusCode, result.StatusText, result.ContentLength)
	for _, entry := range result.SecurityAnalysis {
		fmt.Printf("%s\t%s\n", entry.Name, entry.Status)
	}
}

func runExport(svcCtx *servicectx.Context, accountIDs []string, out, password string) {
	file, err := importexport.New(svcCtx).Export(importexport.Request{
		AccountIDs: accountIDs,
		Encrypt:    password != "",
		Password:   password,
	})
	if err != nil {
		log.Fatal(err)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("exported to %s\n", out)
}

func runImport(path, password string, svcCtx *servicectx.Context) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	result, err := importexport.New(svcCtx).Import(raw, password)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("imported %d account(s), %d failure(s)\n", result.SuccessCount, len(result.Failures))
	for _, f := range result.Failures {
		fmt.Printf("  %s: %s\n", f.Identifier, f.Reason)
	}
}

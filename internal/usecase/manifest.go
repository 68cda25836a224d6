package usecase

import "github.com/i2y/msggen/internal/domain"

// EntryKind tells whether a manifest call is generated.
type EntryKind int

const (
	EntryActive EntryKind = iota
	EntryExcluded
)

// ManifestEntry is one call of the manifest. Excluded entries are kept so
// the reason a call is not generated stays next to the calls that are.
type ManifestEntry struct {
	Name string
	Kind EntryKind
	// Reason is set only for excluded calls.
	Reason string
}

// Active declares a call that is generated.
func Active(name string) ManifestEntry { return ManifestEntry{Name: name, Kind: EntryActive} }

// Excluded declares a call that is deliberately not generated. The entry
// stays excluded even when reason is empty.
func Excluded(name, reason string) ManifestEntry {
	return ManifestEntry{Name: name, Kind: EntryExcluded, Reason: reason}
}

// IsActive reports whether the entry is generated.
func (e ManifestEntry) IsActive() bool { return e.Kind == EntryActive }

// NotificationEntry pairs a notification with the type name its types are
// derived from.
type NotificationEntry struct {
	Name     string
	TypeName domain.TypeName
}

// Notify declares a generated notification.
func Notify(name string, typename domain.TypeName) NotificationEntry {
	return NotificationEntry{Name: name, TypeName: typename}
}

// Manifest is the fixed list of calls and notifications a service exposes.
// Order is the generation order of downstream code.
type Manifest struct {
	ServiceName   string
	Methods       []ManifestEntry
	Notifications []NotificationEntry
	Includes      []string
}

// ActiveMethods returns the names of the generated calls in manifest order.
func (m Manifest) ActiveMethods() []string {
	names := make([]string, 0, len(m.Methods))
	for _, e := range m.Methods {
		if e.IsActive() {
			names = append(names, e.Name)
		}
	}
	return names
}

// ExcludedMethods returns the calls that are deliberately not generated.
func (m Manifest) ExcludedMethods() []ManifestEntry {
	var out []ManifestEntry
	for _, e := range m.Methods {
		if !e.IsActive() {
			out = append(out, e)
		}
	}
	return out
}

const (
	reasonNoMapping  = "no useful mapping to a typed RPC"
	reasonSuperseded = "superseded by another representation"
	reasonSchema     = "schema shape cannot be expressed as a single request/response pair"
)

// DefaultManifest returns the manifest of the Node service.
func DefaultManifest() Manifest {
	return Manifest{
		ServiceName: "Node",
		Methods: []ManifestEntry{
			Active("Getinfo"),
			Active("ListPeers"),
			Active("ListFunds"),
			Active("SendPay"),
			Active("ListChannels"),
			Active("AddGossip"),
			Active("AutoCleanInvoice"),
			Active("AutoClean-Once"),
			Active("AutoClean-Status"),
			Active("CheckMessage"),
			Active("Close"),
			Active("Connect"),
			Active("CreateInvoice"),
			Active("Datastore"),
			Active("DatastoreUsage"),
			Active("CreateOnion"),
			Active("DelDatastore"),
			Active("DelInvoice"),
			Active("Invoice"),
			Active("ListDatastore"),
			Active("ListInvoices"),
			Active("SendOnion"),
			Active("ListSendPays"),
			Active("ListTransactions"),
			Active("Pay"),
			Active("ListNodes"),
			Active("WaitAnyInvoice"),
			Active("WaitInvoice"),
			Active("WaitSendPay"),
			Active("NewAddr"),
			Active("Withdraw"),
			Active("KeySend"),
			Active("FundPsbt"),
			Active("SendPsbt"),
			Active("SignPsbt"),
			Active("UtxoPsbt"),
			Active("TxDiscard"),
			Active("TxPrepare"),
			Active("TxSend"),
			Active("ListPeerChannels"),
			Active("ListClosedChannels"),
			Active("DecodePay"),
			Active("Decode"),
			Active("DelPay"),
			Active("DelForward"),
			Active("DisableOffer"),
			Active("Disconnect"),
			Active("Feerates"),
			Active("FetchInvoice"),
			Active("FundChannel_Cancel"),
			Active("FundChannel_Complete"),
			Active("FundChannel"),
			Active("FundChannel_Start"),
			Excluded("funderupdate", reasonSchema),
			Active("GetLog"),
			Active("GetRoute"),
			Active("ListForwards"),
			Active("ListOffers"),
			Active("ListPays"),
			Active("ListHtlcs"),
			Active("MultiFundChannel"),
			Excluded("multiwithdraw", reasonSchema),
			Active("Offer"),
			Active("OpenChannel_Abort"),
			Active("OpenChannel_Bump"),
			Active("OpenChannel_Init"),
			Active("OpenChannel_Signed"),
			Active("OpenChannel_Update"),
			Excluded("parsefeerate", reasonSchema),
			Active("Ping"),
			Active("Plugin"),
			Active("RenePayStatus"),
			Active("RenePay"),
			Active("ReserveInputs"),
			Active("SendCustomMsg"),
			Active("SendInvoice"),
			Active("SendOnionMessage"),
			Active("SetChannel"),
			Active("SetConfig"),
			Active("SetPsbtVersion"),
			Active("SignInvoice"),
			Active("SignMessage"),
			Active("Splice_Init"),
			Active("Splice_Signed"),
			Active("Splice_Update"),
			Active("UnreserveInputs"),
			Active("UpgradeWallet"),
			Active("WaitBlockHeight"),
			Active("Wait"),
			Excluded("ListConfigs", reasonSchema),
			Excluded("check", reasonNoMapping),
			Active("Stop"),
			Excluded("notifications", reasonSuperseded),
			Excluded("help", reasonNoMapping),
			Active("PreApproveKeysend"),
			Active("PreApproveInvoice"),
			Active("StaticBackup"),
			Active("Bkpr-ChannelsApy"),
			Active("Bkpr-DumpIncomeCsv"),
			Active("Bkpr-Inspect"),
			Active("Bkpr-ListAccountEvents"),
			Active("Bkpr-ListBalances"),
			Active("Bkpr-ListIncome"),
		},
		Notifications: []NotificationEntry{
			Notify("block_added", "BlockAdded"),
			Notify("channel_open_failed", "ChannelOpenFailed"),
			Notify("channel_opened", "ChannelOpened"),
			Notify("connect", "Connect"),
			Notify("custommsg", "CustomMsg"),
		},
		// Shared scalar and aggregate types must be importable even when no
		// method references them directly.
		Includes: []string{"primitives.proto"},
	}
}

package genesis

// DefaultCatalog returns the built-in listing set used when no seed file is
// configured. Stake values are in whole credits.
func DefaultCatalog() *Catalog {
	return &Catalog{Entries: []SeedEntry{
		{
			Name:        "NNS Dapp",
			Link:        "https://qoctq-giaaa-aaaaa-aaaea-cai.ic0.app",
			Description: "A governance dapp for voting on Internet Computer governance proposals",
			Stakes: []SeedStake{
				{Term: "IC", Value: 10},
				{Term: "NNS", Value: 2},
				{Term: "Internet", Value: 10},
				{Term: "Computer", Value: 10},
				{Term: "DFINITY", Value: 5},
			},
		},
		{
			Name:        "Internet Identity",
			Link:        "https://rdmx6-jaaaa-aaaaa-aaadq-cai.ic0.app",
			Description: "Internet Identity enables you to authenticate securely and anonymously when accessing applications on the Internet Computer",
			Stakes: []SeedStake{
				{Term: "IC", Value: 8},
				{Term: "II", Value: 2},
				{Term: "Internet", Value: 10},
				{Term: "Computer", Value: 2},
				{Term: "Identity", Value: 10},
			},
		},
		{
			Name:        "Distrikt",
			Link:        "https://c7fao-laaaa-aaaae-aaa4q-cai.ic0.app",
			Description: "distrikt is a decentralized, professional social media network that empowers users to own and control their identity.",
			Stakes: []SeedStake{
				{Term: "Social", Value: 8},
				{Term: "Media", Value: 8},
				{Term: "Distrikt", Value: 2},
				{Term: "Disrupt", Value: 2},
				{Term: "Facebook", Value: 5},
			},
		},
		{
			Name:        "DSCVR",
			Link:        "https://h5aet-waaaa-aaaab-qaamq-cai.ic0.app",
			Description: "A decentralized social news aggregator built on the Internet Computer",
			Stakes: []SeedStake{
				{Term: "Social", Value: 8},
				{Term: "Media", Value: 8},
				{Term: "Discover", Value: 12},
				{Term: "DSCVR", Value: 5},
				{Term: "Reddit", Value: 5},
			},
		},
		{
			Name:        "OpenChat",
			Link:        "https://7e6iv-biaaa-aaaaf-aaada-cai.ic0.app",
			Description: "A truly decentralized alternative to WhatsApp",
			Stakes: []SeedStake{
				{Term: "Open", Value: 5},
				{Term: "Chat", Value: 5},
				{Term: "WhatsApp", Value: 12},
				{Term: "Communication", Value: 5},
				{Term: "IC", Value: 5},
			},
		},
		{
			Name:        "Motoko School",
			Link:        "https://anyuk-uiaaa-aaaah-aaduq-cai.ic0.app",
			Description: "A collaborative online school to learn the Motoko programming language",
			Stakes: []SeedStake{
				{Term: "Motoko", Value: 5},
				{Term: "Programming", Value: 5},
				{Term: "Language", Value: 5},
				{Term: "Online", Value: 12},
				{Term: "Lessons", Value: 5},
				{Term: "Canister", Value: 5},
			},
		},
		{
			Name:        "Motoko Playground",
			Link:        "https://m7sm4-2iaaa-aaaab-qabra-cai.ic0.app",
			Description: "An online playground to develop and deploy Motoko canisters",
			Stakes: []SeedStake{
				{Term: "Motoko", Value: 5},
				{Term: "Programming", Value: 5},
				{Term: "Language", Value: 5},
				{Term: "Online", Value: 12},
				{Term: "Playground", Value: 15},
				{Term: "Canister", Value: 5},
			},
		},
		{
			Name:        "Canlista",
			Link:        "https://k7gat-daaaa-aaaae-qaahq-cai.ic0.app",
			Description: "Find, publish and extend applications and services built on the Internet Computer",
			Stakes: []SeedStake{
				{Term: "IC", Value: 5},
				{Term: "Listing", Value: 5},
			},
		},
		{
			Name:        "IC Drive",
			Link:        "https://rglue-kyaaa-aaaah-qakca-cai.ic0.app",
			Description: "Secure and private decentralized storage app",
			Stakes: []SeedStake{
				{Term: "IC", Value: 5},
				{Term: "Drive", Value: 15},
				{Term: "Cloud", Value: 15},
				{Term: "Dropbox", Value: 12},
				{Term: "File", Value: 10},
				{Term: "Storage", Value: 8},
			},
		},
		{
			Name:        "DeFind",
			Link:        "https://ilhm2-qyaaa-aaaai-qancq-cai.ic0.app",
			Description: "A stake based search engine ready for the Web 3.0",
			Stakes: []SeedStake{
				{Term: "IC", Value: 5},
				{Term: "Find", Value: 15},
				{Term: "Search", Value: 15},
				{Term: "Engine", Value: 15},
				{Term: "Canister", Value: 15},
				{Term: "Google", Value: 12},
				{Term: "Web", Value: 10},
			},
		},
	}}
}

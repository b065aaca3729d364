package contract

import "time"

// AgentConfig is the business configuration for one assistant deployment:
// persona, company context, and turn budgets. It replaces any process-wide
// singleton; construct once and pass it into session/service construction.
type AgentConfig struct {
	AssistantName       string `envconfig:"ASSISTANT_NAME" split_words:"true" default:"DaisyBot"`
	AssistantRole       string `envconfig:"ASSISTANT_ROLE" split_words:"true" default:"Sales Assistant"`
	CompanyName         string `envconfig:"COMPANY_NAME" split_words:"true" default:"DaisyShop"`
	CompanyBusiness     string `envconfig:"COMPANY_BUSINESS" split_words:"true" default:"Clothing retail"`
	ProductCatalog      string `envconfig:"PRODUCT_CATALOG" split_words:"true" default:"Men's and women's clothing, accessories"`
	CompanyValues       string `envconfig:"COMPANY_VALUES" split_words:"true" default:"Our mission is to serve customers with dedication and provide them with the best shopping experience."`
	ConversationPurpose string `envconfig:"CONVERSATION_PURPOSE" split_words:"true" default:"Provide product information and understand customer needs"`
	ConversationType    string `envconfig:"CONVERSATION_TYPE" split_words:"true" default:"Chat and messaging"`
	Language            string `envconfig:"LANGUAGE" split_words:"true" default:"English"`

	// HistoryWindow is the number of recent turns shown to the stage
	// classifier and the agent prompt. SummaryWindow is the number of
	// recent human turns fed to the summary updater.
	HistoryWindow int `envconfig:"HISTORY_WINDOW" split_words:"true" default:"6"`
	SummaryWindow int `envconfig:"SUMMARY_WINDOW" split_words:"true" default:"4"`

	MaxIterations int           `envconfig:"MAX_ITERATIONS" split_words:"true" default:"3"`
	Budget        time.Duration `envconfig:"BUDGET" split_words:"true" default:"45s"`
	Fallback      string        `envconfig:"FALLBACK" split_words:"true"`
}

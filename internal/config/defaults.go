package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultLogLevel = "info"

	DefaultDatabaseName = "chatbot"

	DefaultSessionKind   = SessionWhatsApp
	DefaultWhatsAppStore = "file:whatsapp-session.db?_foreign_keys=on"

	DefaultReplyDelay   = 1 * time.Second
	DefaultTypingDelay  = 2 * time.Second
	DefaultFallbackName = "usuário"

	DefaultHTTPPort   = 3000
	DefaultHTTPStatus = "🤖 Bot WhatsApp está online!"
)

// Default user-facing texts. NamePlaceholder in the greeting is replaced by
// the contact's first name.
const (
	NamePlaceholder = "{name}"
	DefaultGreeting = "Olá, {name}! 👋\nSou a assistente virtual da Assessoria Villani.\nEscolha uma opção:\n\n"
	DefaultMenu     = "1️⃣ Cidadania Italiana\n2️⃣ Cidadania Portuguesa\n3️⃣ Conversão de CNH\n4️⃣ Tradução juramentada\n5️⃣ Outros"
)

// DefaultOptions are the canned replies for menu options "1".."5".
var DefaultOptions = map[string]string{
	"1": "Por favor, digite uma das opções abaixo:\n1 - Busca de documentos\n2 - Emissão de Certidões\n3 - Cidadania Judicial\n4 - Outros",
	"2": "Aguarde, um de nossos atendentes entrará em contato. Obrigado!",
	"3": "Aguarde, um de nossos atendentes entrará em contato. Obrigado!",
	"4": "Poderia nos dizer como podemos te ajudar com tradução juramentada?",
	"5": "Por favor, nos diga como podemos te ajudar.",
}

// Default scheduled tasks.
var DefaultTasks = map[string]any{
	"store_maintenance": map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
	"message_stats":     map[string]any{"enabled": true, "schedule": "0 0 * * * *"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", true)

	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", DefaultDatabaseName)

	v.SetDefault("session.kind", DefaultSessionKind)
	v.SetDefault("session.whatsapp_store", DefaultWhatsAppStore)
	v.SetDefault("session.qr_in_terminal", true)
	v.SetDefault("session.telegram_token", "")

	v.SetDefault("bot.reply_delay", DefaultReplyDelay)
	v.SetDefault("bot.typing_delay", DefaultTypingDelay)
	v.SetDefault("bot.fallback_name", DefaultFallbackName)

	v.SetDefault("messages.greeting", DefaultGreeting)
	v.SetDefault("messages.menu", DefaultMenu)
	v.SetDefault("messages.options", DefaultOptions)

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.port", DefaultHTTPPort)
	v.SetDefault("http.status", DefaultHTTPStatus)

	v.SetDefault("scheduler.tasks", DefaultTasks)
}

package bot

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/MrJamesThe3rd/gastos/internal/card"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
)

const (
	ReplyNoPending     = "No hay gastos pendientes de confirmación. Envía una foto de un recibo para comenzar."
	ReplyRejected      = "❌ Gasto descartado."
	ReplyNotUnderstood = "🤔 No entendí la corrección. Intenta ser más explícito. Ej: \"Usa tarjeta visa\", \"Monto 5000\""
	ReplyNoTED         = "📄 No encontré el timbre electrónico (TED) en el documento. Envía una foto de la boleta."
	ReplyUnsupported   = "📎 Solo puedo leer fotos de boletas o notificaciones bancarias."
	// ReplyFailure is what transports show when processing returns an error.
	ReplyFailure = "⚠️ No pude procesar tu mensaje. Intenta nuevamente en unos minutos."
)

const draftPrompt = "\n\n¿Es correcto? Responde:\n- *SI* para guardar\n- *NO* para descartar\n- O corrige (ej: \"Usa tarjeta Visa\")"

var (
	confirmWords = map[string]bool{"si": true, "sí": true, "ok": true, "yes": true, "correcto": true, "save": true}
	rejectWords  = map[string]bool{"no": true, "nop": true, "cancelar": true, "borrar": true, "del": true}
)

func withIssuer(name, issuerID string) string {
	if issuerID == "" {
		return "*" + name + "*"
	}

	return fmt.Sprintf("*%s* (%s)", name, issuerID)
}

type draftView struct {
	merchant       string
	issuerID       string
	documentNumber string
	amount         int64
	category       string
	paymentMethod  expense.PaymentMethod
	cardName       string
}

func draftMessage(v draftView) string {
	doc := v.documentNumber
	if doc == "" {
		doc = "N/A"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "🧾 *Borrador Detectado*:\n\n🏪 %s\n📄 N°: %s\n💰 $%d\n📂 %s",
		withIssuer(v.merchant, v.issuerID), doc, v.amount, v.category)

	if v.paymentMethod == expense.PaymentCredit {
		if v.cardName != "" {
			fmt.Fprintf(&b, "\n💳 Tarjeta: *%s*", v.cardName)
		} else {
			b.WriteString("\n💳 Crédito Detectado (Sin asignar)")
		}
	}

	b.WriteString(draftPrompt)

	return b.String()
}

func confirmedMessage(e *expense.Expense) string {
	return fmt.Sprintf("✅ *Gasto Guardado Exitosamente*\n\n📅 %s\n🏪 %s\n💰 $%d\n📂 %s",
		formatDate(e.Date), withIssuer(e.DisplayMerchant(), e.IssuerID()), e.Amount, e.Category)
}

func formatDate(d civil.Date) string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month, d.Year)
}

func selectedMessage(name string) string {
	return fmt.Sprintf("👌 Seleccionado: *%s*.\n¿Todo listo? Responde *SI* para guardar.", name)
}

func cardAssignedMessage(name string) string {
	return fmt.Sprintf("💳 Tarjeta asignada: *%s*\n", name)
}

func cardList(cards []*card.Card) string {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		lines = append(lines, "- "+c.Name)
	}

	return strings.Join(lines, "\n")
}

func ambiguousCardsMessage(hint string, cards []*card.Card) string {
	return fmt.Sprintf("💳 Encontré varias tarjetas para %q:\n%s\nPor favor sé más específico (di el nombre completo de la tarjeta).",
		hint, cardList(cards))
}

func cardNotFoundMessage(hint string, cards []*card.Card) string {
	return fmt.Sprintf("❌ No encontré tarjeta %q. Tus tarjetas:\n%s", hint, cardList(cards))
}

func noCardsMessage(hint string) string {
	return fmt.Sprintf("❌ No encontré tarjeta %q. Aún no tienes tarjetas registradas.", hint)
}

func merchantListMessage(term string, candidates []*merchant.Merchant) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔎 Encontré varios comercios para \"*%s*\":\n", term)

	for i, m := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, withIssuer(m.Name, m.IssuerID))
	}

	b.WriteString("\nResponde el *número* para seleccionar, o *SI* para guardar como nuevo.")

	return b.String()
}

func updatedMessage(e *expense.Expense) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✏️ *Gasto Actualizado*:\n\n🏪 *%s*\n💰 $%d\n📂 %s", e.MerchantName, e.Amount, e.Category)

	if e.Card != nil {
		fmt.Fprintf(&b, "\n💳 Tarjeta: *%s*", e.Card.Name)
	}

	b.WriteString("\n\n¿Ahora está correcto? (Si/No/Corrección)")

	return b.String()
}

package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

// SendConfirmationEmail envoie l'e-mail de confirmation de paiement, avec la
// facture PDF en pièce jointe si disponible
func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@sewasaathi.in"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_sewasaathi.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GeneratePaymentConfirmationHTML génère le HTML de confirmation de paiement.
// Le détail vient de la vue résolue du panier au moment du paiement.
func GeneratePaymentConfirmationHTML(order models.Order, cart models.CartView, qrBase64 string) string {
	linesHTML := ""
	for _, mc := range cart.MiniCarts {
		for _, line := range mc.Services {
			linesHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s</td>
				<td>%s</td>
				<td>%d</td>
				<td>₹%.2f</td>
			</tr>`, mc.Category, line.Service.Name, mc.Worker.Name, line.Quantity, line.Service.Price*float64(line.Quantity))
		}
	}

	qrHTML := ""
	if qrBase64 != "" {
		qrHTML = fmt.Sprintf(`<p>Retrouvez votre reçu UPI :</p><img src="%s" alt="QR UPI" width="160"/>`, qrBase64)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Merci pour votre paiement 🙏</h2>
	<p>Commande <b>%s</b> — montant réglé : <b>₹%.2f</b> (%s)</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Catégorie</th><th>Service</th><th>Prestataire</th><th>Qté</th><th>Sous-total</th></tr>
		%s
	</table>
	%s
	<p>Référence transaction : %s</p>
</body>
</html>`, order.ID.Hex(), order.Amount, order.PaymentMethod, linesHTML, qrHTML, order.TransactionID)
}

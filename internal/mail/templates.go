package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/kmohsen11/Argos/internal/entity"
)

var operatorHTML = template.Must(template.New("operator").Parse(`<h2>New Pre-Order</h2>
<p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Product:</strong> {{.Product}}</p>
<p><strong>Size:</strong> {{.Size}}</p>
<p><strong>Device Type:</strong> {{.Device}}</p>
`))

var customerHTML = template.Must(template.New("customer").Parse(`<h1>Thank you for your pre-order, {{.FirstName}}!</h1>
<p>We're excited to confirm your pre-order for our {{.Product}}.</p>
<h2>Order Details:</h2>
<ul>
  <li>Size: {{.Size}}</li>
  <li>Compatible Device: {{.Device}}</li>
</ul>
<p>We'll keep you updated on the status of your order and notify you when it is ready for shipping.</p>
<p>If you have any questions, please don't hesitate to reach out to our support team.</p>
<p>Best regards,<br>The AI Performance Wear Team</p>
`))

type view struct {
	FirstName string
	LastName  string
	Email     string
	Product   string
	Size      string
	Device    string
}

func newView(n entity.PreorderNotification) view {
	device := "Not specified"
	if n.DeviceType != "" {
		device = entity.DeviceType(n.DeviceType).Label()
	}
	return view{
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Email:     n.Email,
		Product:   entity.ProductType(n.ProductType).Label(),
		Size:      n.Size,
		Device:    device,
	}
}

// Composer renders pre-order messages.
type Composer struct {
	From             string
	OperatorInbox    string
	ConfirmationFrom string
}

// Operator renders the new-order message sent to the operations inbox.
func (c Composer) Operator(n entity.PreorderNotification) (Message, error) {
	v := newView(n)

	var buf bytes.Buffer
	if err := operatorHTML.Execute(&buf, v); err != nil {
		return Message{}, fmt.Errorf("failed to render operator mail: %w", err)
	}

	return Message{
		From:    c.From,
		To:      []string{c.OperatorInbox},
		ReplyTo: n.Email,
		Subject: fmt.Sprintf("New Pre-Order from %s %s", oneLine(n.FirstName), oneLine(n.LastName)),
		HTML:    buf.String(),
		Text: fmt.Sprintf("New Pre-Order\nName: %s %s\nEmail: %s\nProduct: %s\nSize: %s\nDevice Type: %s\n",
			v.FirstName, v.LastName, v.Email, v.Product, v.Size, v.Device),
	}, nil
}

// Customer renders the confirmation sent to the person who pre-ordered.
func (c Composer) Customer(n entity.PreorderNotification) (Message, error) {
	var buf bytes.Buffer
	if err := customerHTML.Execute(&buf, newView(n)); err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation mail: %w", err)
	}

	from := c.ConfirmationFrom
	if from == "" {
		from = c.From
	}
	return Message{
		From:    from,
		To:      []string{n.Email},
		Subject: "Your Pre-order Confirmation",
		HTML:    buf.String(),
	}, nil
}

// oneLine keeps user input from injecting extra header lines.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

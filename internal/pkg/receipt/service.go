// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/order"
)

// Service renders order receipts as PDF documents
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders a PDF receipt for an order
func (s *Service) Generate(o *order.Order) (*bytes.Buffer, error) {
	data := receiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", o.ID),
		IssuedDate:    time.Now().Format("January 2, 2006"),
		Order:         o,
		Subtotal:      o.TotalPrice - o.TaxPrice - o.ShippingPrice,
		StoreName:     s.config.App.Name,
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) renderHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"lineTotal": func(price float64, qty int) string {
			return fmt.Sprintf("%.2f", price*float64(qty))
		},
	}).Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// receiptData is the data passed to the receipt template
type receiptData struct {
	ReceiptNumber string
	IssuedDate    string
	Order         *order.Order
	Subtotal      float64
	StoreName     string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .store-info {
            flex: 1;
        }
        .receipt-info {
            text-align: right;
            flex: 1;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .order-details {
            margin-bottom: 30px;
        }
        .order-details table {
            width: 100%;
        }
        .order-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .order-details .label {
            font-weight: bold;
            width: 150px;
        }
        .shipping-info {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
        }
        .status-paid {
            background-color: #dcfce7;
            color: #166534;
        }
        .status-pending {
            background-color: #fef3c7;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-info">
            <h1>{{.StoreName}}</h1>
        </div>
        <div class="receipt-info">
            <div class="receipt-title">RECEIPT</div>
            <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Issued:</strong> {{.IssuedDate}}</p>
            <p><strong>Order ID:</strong> {{.Order.ID}}</p>
        </div>
    </div>

    <div class="order-details">
        <table>
            <tr>
                <td class="label">Order Date:</td>
                <td>{{.Order.CreatedAt.Format "January 2, 2006"}}</td>
                <td class="label" style="text-align: right;">Payment Status:</td>
                <td style="text-align: right;">
                    <span class="status-badge {{if .Order.IsPaid}}status-paid{{else}}status-pending{{end}}">
                        {{if .Order.IsPaid}}Paid{{else}}Pending{{end}}
                    </span>
                </td>
            </tr>
            <tr>
                <td class="label">Payment Method:</td>
                <td>{{.Order.PaymentMethod}}</td>
                <td class="label" style="text-align: right;">Delivery Status:</td>
                <td style="text-align: right;">
                    <span class="status-badge {{if .Order.IsDelivered}}status-paid{{else}}status-pending{{end}}">
                        {{if .Order.IsDelivered}}Delivered{{else}}In Transit{{end}}
                    </span>
                </td>
            </tr>
        </table>
    </div>

    {{if .Order.ShippingAddress}}
    <div class="shipping-info">
        <div class="section-title">Ship To:</div>
        <p>{{.Order.ShippingAddress.Address}}</p>
        <p>{{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.PostalCode}}</p>
        <p>{{.Order.ShippingAddress.Country}}</p>
    </div>
    {{end}}

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.OrderItems}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="qty-col">{{.Qty}}</td>
                <td class="price-col">&#8377;{{money .Price}}</td>
                <td class="total-col">&#8377;{{lineTotal .Price .Qty}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">&#8377;{{money .Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Shipping:</td>
                <td class="amount">&#8377;{{money .Order.ShippingPrice}}</td>
            </tr>
            <tr>
                <td class="label">Tax:</td>
                <td class="amount">&#8377;{{money .Order.TaxPrice}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">&#8377;{{money .Order.TotalPrice}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.StoreName}}!</p>
    </div>
</body>
</html>
`

package mailer

import "html/template"

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #012d6a; color: white; padding: 20px; text-align: center; }
        .content { background: #f9f9f9; padding: 20px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #012d6a; }
        .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Nuevo mensaje de contacto</h2>
        </div>
        <div class="content">
            <div class="field"><span class="label">Nombre:</span><br>{{.Nombre}}</div>
            <div class="field"><span class="label">Email:</span><br>{{.Email}}</div>
            <div class="field"><span class="label">Teléfono:</span><br>{{.Telefono}}</div>
            <div class="field"><span class="label">Nombre mascota:</span><br>{{.Mascota}}</div>
            <div class="field"><span class="label">Tipo de mascota:</span><br>{{.TipoMascota}}</div>
            <div class="field"><span class="label">Motivo:</span><br>{{.Motivo}}</div>
            <div class="field"><span class="label">Mensaje:</span><br>{{.Mensaje}}</div>
            <div class="field"><span class="label">Newsletter:</span><br>{{.Newsletter}}</div>
            <div class="field"><span class="label">Fecha y hora:</span><br>{{.FechaHora}}</div>
            <div class="field"><span class="label">IP:</span><br>{{.IP}}</div>
        </div>
        <div class="footer">
            <p>Este mensaje fue enviado desde el formulario de contacto de<br>
            <strong>{{.Empresa}}</strong></p>
        </div>
    </div>
</body>
</html>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #012d6a; color: white; padding: 30px; text-align: center; }
        .content { padding: 30px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>¡Gracias por contactarnos!</h1>
        </div>
        <div class="content">
            <p>Hola <strong>{{.Nombre}}</strong>,</p>
            <p>Hemos recibido correctamente tu mensaje y nos pondremos en contacto contigo lo antes posible.</p>
            <p><strong>Resumen de tu consulta:</strong></p>
            <ul>
                <li><strong>Motivo:</strong> {{.Motivo}}</li>
                <li><strong>Mascota:</strong> {{.Mascota}}</li>
            </ul>
            <p>Nuestro equipo revisará tu mensaje y te responderá en un plazo máximo de 24-48 horas laborables.</p>
            <p>Si necesitas atención urgente, puedes llamarnos a:</p>
            <ul>
                <li><strong>Cita previa:</strong> 947 20 07 35</li>
                <li><strong>Urgencias 24h:</strong> 689 56 91 71</li>
            </ul>
            <p>Gracias por confiar en nosotros para el cuidado de tu mascota.</p>
        </div>
        <div class="footer">
            <p><strong>{{.Empresa}}</strong><br>
            C/ Las Calzadas, 4 - 09004 Burgos<br>
            info@clinicafisacferrandez.com</p>
        </div>
    </div>
</body>
</html>
`))

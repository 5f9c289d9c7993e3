package templates

import "fmt"

// RenderVehicleAlertEmail builds the email sent to a vehicle owner the first
// time their vehicle crosses the emission limit
func RenderVehicleAlertEmail(ownerName, vehicleName, vehicleNumber string, carbonEmitted, threshold float64) (htmlContent, plainText string) {
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your vehicle %s (%s) has exceeded the carbon emission limit.\n\n"+
			"Current emission: %.2f kg CO2\n"+
			"Allowed limit: %.2f kg CO2\n\n"+
			"Please consider servicing the vehicle or reducing its usage. Its status will return to normal once the recorded emission drops back under the limit.",
		ownerName, vehicleName, vehicleNumber, carbonEmitted, threshold)

	return RenderGenericEmail("Carbon Emission Alert", body), body
}

package catalog

// fallback is the reduced embedded catalog used when no external file is
// supplied or the supplied one fails validation.
var fallback = []Safeguard{
	{Control: 1, ID: "1.1", Group: IG1, Title: "Maintain a hardware asset inventory", ControlName: "1 - Inventory and Control of Enterprise Assets"},
	{Control: 1, ID: "1.2", Group: IG2, Title: "Track temporary or remote assets", ControlName: "1 - Inventory and Control of Enterprise Assets"},
	{Control: 1, ID: "1.3", Group: IG3, Title: "Automate asset discovery", ControlName: "1 - Inventory and Control of Enterprise Assets"},
	{Control: 2, ID: "2.1", Group: IG1, Title: "Maintain an authorized software inventory", ControlName: "2 - Inventory and Control of Software Assets"},
	{Control: 2, ID: "2.2", Group: IG2, Title: "Block unauthorized installations", ControlName: "2 - Inventory and Control of Software Assets"},
	{Control: 3, ID: "3.1", Group: IG1, Title: "Protect data at rest with baseline encryption", ControlName: "3 - Data Protection"},
	{Control: 3, ID: "3.5", Group: IG2, Title: "Classify sensitive data", ControlName: "3 - Data Protection"},
	{Control: 3, ID: "3.7", Group: IG3, Title: "Apply DLP to SaaS", ControlName: "3 - Data Protection"},
	{Control: 4, ID: "4.1", Group: IG1, Title: "Defend endpoints against malware", ControlName: "4 - Secure Configuration of Enterprise Assets and Software"},
	{Control: 4, ID: "4.6", Group: IG2, Title: "Standardized hardening (CIS Benchmarks)", ControlName: "4 - Secure Configuration of Enterprise Assets and Software"},
	{Control: 5, ID: "5.1", Group: IG1, Title: "Baseline access and identity policies", ControlName: "5 - Account Management"},
	{Control: 5, ID: "5.6", Group: IG2, Title: "Periodic access reviews", ControlName: "5 - Account Management"},
	{Control: 5, ID: "5.9", Group: IG3, Title: "Automate access recertification", ControlName: "5 - Account Management"},
	{Control: 16, ID: "16.1", Group: IG1, Title: "Security awareness training (baseline)", ControlName: "16 - Security Awareness and Skills Training"},
	{Control: 16, ID: "16.3", Group: IG2, Title: "Phishing simulations", ControlName: "16 - Security Awareness and Skills Training"},
	{Control: 16, ID: "16.7", Group: IG3, Title: "Role-based skills program", ControlName: "16 - Security Awareness and Skills Training"},
	{Control: 17, ID: "17.1", Group: IG1, Title: "Incident response: baseline plan", ControlName: "17 - Incident Response Management"},
	{Control: 17, ID: "17.5", Group: IG2, Title: "Recurring tabletop exercises", ControlName: "17 - Incident Response Management"},
	{Control: 17, ID: "17.7", Group: IG3, Title: "Forensics and e-discovery integration", ControlName: "17 - Incident Response Management"},
	{Control: 18, ID: "18.1", Group: IG2, Title: "Annual external pentest", ControlName: "18 - Penetration Testing"},
	{Control: 18, ID: "18.2", Group: IG3, Title: "Objective-driven red team", ControlName: "18 - Penetration Testing"},
}

// Fallback returns a copy of the embedded reduced catalog.
func Fallback() []Safeguard {
	out := make([]Safeguard, len(fallback))
	copy(out, fallback)
	return out
}

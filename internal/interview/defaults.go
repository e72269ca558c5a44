package interview

const tsavoJobDescription = `
Tsavo West Inc
6708 Harney Road, Tampa, Florida 33610

Payment
$18/hour to $20/hour based on experience
Pay Structure: Combination of Fixed and Per Stop
Payday: Friday

Schedule
10 Hours
Start time for Driver: 07:30 AM
Typical Miles Driven each day: 150 Miles
Work Schedules: 4 days work schedule including 1 weekend and 1-2 days overtime available
Additional Information: Stop bonus and Safety bonus available

Job Description
Tsavo West Inc is currently seeking reliable and responsible Delivery Drivers to join our team. As a delivery driver, you will be an essential part of our operations, responsible for delivering packages to our valued customers in a safe and timely manner.

No CDL License Required.

Responsibilities:
Safely operate a company-provided delivery vehicle to deliver packages to designated locations.
Ensure timely and accurate delivery of products, maintaining their condition upon arrival.
Load and unload packages.
Plan and follow the most efficient route for timely deliveries while adhering to traffic laws and safety regulations.
Verify the accuracy of packages and ensure proper documentation for each delivery.
Provide exceptional customer service by being polite, professional, and accommodating during deliveries.
Collaborate with the dispatch team to optimize delivery schedules and communicate any delays or issues promptly.
Maintain the cleanliness of the delivery vehicle.
Report any vehicle malfunctions, accidents, or traffic violations to the supervisor immediately.

Qualifications:
Must be 21 Years or above.
High school diploma or equivalent.
Valid driver's license with a clean driving record.
Must be able to clear Pre-employment Background and Drug Screening.
Prior experience with courier services is a plus.
Excellent time management and organizational skills.
Ability to work independently and handle multiple tasks effectively.
Ability to lift packages up to 150 lbs, bending, lifting, and maneuvering in and out of the delivery truck.

Benefits:
Weekly Pay
Paid Training ($15/hour for 1-2 weeks)
Stop bonus and Safety bonus
5 days PTO after 90 days of FT employment
Comprehensive health insurance and Aflac's supplemental insurance options, including accident, critical illness, dental, vision, and disability coverage.
Opportunities for overtime.
Military and Veteran applicants are strongly encouraged to apply.
`

// DefaultRegistry returns the interview configuration for the Tsavo West
// delivery driver role. A config file can override any part of it.
func DefaultRegistry() *Registry {
	return &Registry{
		Job: Job{
			Company:     "Tsavo West Inc",
			Role:        "FedEx Ground ISP Delivery Driver (Non-CDL)",
			Location:    "6708 Harney Road, Tampa, Florida 33610",
			Pay:         "$18/hour to $20/hour based on experience",
			Schedule:    "4 days work schedule including 1 weekend, 10-hour shifts starting 07:30 AM",
			Description: tsavoJobDescription,
		},
		Mandatory: []MandatorySpec{
			{
				ID:           "age",
				Label:        "Age Requirement (21+)",
				Question:     "Are you 21 years of age or older?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "yeah", "yep", "i am", "21", "over 21"},
				FailKeywords: []string{"no", "nope", "not yet", "under 21", "i'm not"},
				Weight:       10,
			},
			{
				ID:           "license",
				Label:        "Valid Driver's License",
				Question:     "Do you currently hold a valid driver's license?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "yeah", "yep", "i do", "valid"},
				FailKeywords: []string{"no", "nope", "i don't", "expired", "suspended", "revoked"},
				Weight:       10,
			},
			{
				ID:           "clean_record",
				Label:        "Clean Driving Record",
				Question:     "Do you have a clean driving record with no major violations or accidents?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "clean", "no violations", "no accidents"},
				FailKeywords: []string{"no", "dui", "suspended", "violations", "accidents"},
				Weight:       10,
			},
			{
				ID:           "background_drug",
				Label:        "Background & Drug Screening",
				Question:     "Are you willing and able to pass a pre-employment background check and drug screening?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "willing", "no problem", "sure", "absolutely"},
				FailKeywords: []string{"no", "cannot", "can't", "not willing", "won't"},
				Weight:       10,
			},
			{
				ID:           "physical",
				Label:        "Physical Ability (Lift 150 lbs)",
				Question:     "Are you physically able to lift packages up to 150 lbs, including bending, lifting, and maneuvering in and out of a delivery truck?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "can", "able", "no problem", "sure"},
				FailKeywords: []string{"no", "cannot", "can't", "unable", "not able"},
				Weight:       10,
			},
			{
				ID:           "availability",
				Label:        "Weekend & Long-Shift Availability",
				Question:     "This role requires 10-hour shifts, 4 days a week including at least 1 weekend day (with overtime opportunities). Are you available for this schedule?",
				QuickOptions: []string{"Yes", "No"},
				PassKeywords: []string{"yes", "available", "can do", "no problem", "flexible"},
				FailKeywords: []string{"no", "cannot", "can't", "not available", "weekdays only"},
				Weight:       10,
			},
		},
		Preferred: []PreferredSpec{
			{
				ID:       "delivery_experience",
				Label:    "Prior Delivery / Courier Experience",
				Question: "Do you have any prior experience with delivery or courier services? If so, please tell me about it.",
				FollowUpPrompts: []string{
					"How long did you work in that delivery role?",
					"What types of packages or goods were you delivering?",
					"What was the typical volume of deliveries you handled per day?",
				},
				Weight: 13.33,
			},
			{
				ID:       "time_management",
				Label:    "Time Management & Organizational Skills",
				Question: "How would you describe your time management and organizational skills? Can you give me an example of how you've handled a busy workday?",
				FollowUpPrompts: []string{
					"How do you prioritize tasks when you have multiple deadlines?",
					"Have you ever had to manage a route or schedule independently?",
				},
				Weight: 13.33,
			},
			{
				ID:       "independent_work",
				Label:    "Ability to Work Independently",
				Question: "This role requires working independently for most of the day. How comfortable are you with that? Can you share an experience where you worked independently?",
				FollowUpPrompts: []string{
					"How do you handle unexpected problems when there's no supervisor nearby?",
					"What motivates you to stay productive when working alone?",
				},
				Weight: 13.34,
			},
		},
		MandatoryPoints: 60,
		PreferredPoints: 40,
		Threshold:       60,
	}
}

package consultation

import "text/template"

const summarizeSystem = `You are an expert medical assistant that creates consultation summaries.
You analyze doctor-patient conversations and create two versions:
1. Doctor summary: detailed, uses medical terminology, comprehensive
2. Patient summary: simple, easy to understand, focuses on action items
Always extract key information accurately and maintain medical accuracy.
Respond with a single JSON object and nothing else:
{"doctor_summary": "...", "patient_summary": "...", "key_symptoms": ["..."], "diagnosis_discussed": "...", "medications_mentioned": ["..."], "follow_up_instructions": ["..."], "important_notes": ["..."]}`

var summarizeUser = template.Must(template.New("summarize").Parse(`Analyze this medical consultation transcription and provide a structured summary.

Consultation transcription:
{{.Transcript}}

Instructions:
1. Create a detailed summary for the doctor with proper medical terminology
2. Create a simple, patient-friendly summary focusing on what they need to know and do
3. Extract all symptoms mentioned
4. Identify diagnosis or conditions discussed
5. List all medications prescribed or discussed
6. Extract follow-up instructions
7. Note any important warnings or special instructions`))

const prescribeSystem = `You are an expert medical AI generating a prescription from a consultation summary.
The patient's full medical profile is provided. You MUST:
- avoid any medicine the patient is allergic to
- check for interactions with the patient's current medications
- account for chronic conditions and demographics when choosing dosage
Only include medicines that were prescribed or clearly indicated in the consultation.
Respond with a single JSON object and nothing else:
{"medicines": [{"name": "...", "generic_name": "...", "dosage": "...", "schedule": {"morning": true, "afternoon": false, "night": true}, "duration_days": 5, "instructions": "...", "warnings": "..."}], "additional_instructions": ["..."]}`

var prescribeUser = template.Must(template.New("prescribe").Parse(`Patient profile:
{{.PatientContext}}

Consultation summary (doctor version):
{{.DoctorSummary}}

Diagnosis discussed: {{.Diagnosis}}
Medications mentioned: {{.Medications}}
Important notes: {{.Notes}}

Generate the prescription.`))

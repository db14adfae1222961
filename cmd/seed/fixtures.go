package main

import "github.com/cloudexam/cloudexam-backend/internal/model"

func str(s string) *string { return &s }

var providers = []model.Provider{
	{ID: 1, Name: "Amazon Web Services (AWS)"},
	{ID: 2, Name: "Microsoft Azure"},
	{ID: 3, Name: "Google Cloud Platform (GCP)"},
}

var courses = []model.Course{
	{
		ID: 1, ProviderID: 1, Level: model.CourseLevelPractitioner,
		Title:       "AWS Cloud Practitioner",
		Description: str("Foundational cloud concepts and AWS services overview. Ideal for beginners starting their cloud journey."),
	},
	{
		ID: 2, ProviderID: 1, Level: model.CourseLevelAssociate,
		Title:       "AWS Solutions Architect Associate",
		Description: str("Design distributed systems on AWS. Learn about compute, storage, database, and networking services."),
	},
	{
		ID: 3, ProviderID: 1, Level: model.CourseLevelAssociate,
		Title:       "AWS Developer Associate",
		Description: str("Develop and maintain applications on AWS. Covers Lambda, API Gateway, DynamoDB, and more."),
	},
	{
		ID: 4, ProviderID: 1, Level: model.CourseLevelProfessional,
		Title:       "AWS Solutions Architect Professional",
		Description: str("Advanced architectural best practices for complex, multi-tier applications on AWS."),
	},
	{
		ID: 5, ProviderID: 2, Level: model.CourseLevelPractitioner,
		Title:       "Azure Fundamentals (AZ-900)",
		Description: str("Introduction to cloud concepts and Azure services. Perfect for beginners."),
	},
	{
		ID: 6, ProviderID: 2, Level: model.CourseLevelAssociate,
		Title:       "Azure Administrator (AZ-104)",
		Description: str("Manage Azure subscriptions, implement storage solutions, configure virtual networks."),
	},
	{
		ID: 7, ProviderID: 3, Level: model.CourseLevelPractitioner,
		Title:       "Google Cloud Digital Leader",
		Description: str("Understand Google Cloud products and services and how they can be used to achieve business objectives."),
	},
	{
		ID: 8, ProviderID: 3, Level: model.CourseLevelAssociate,
		Title:       "Google Cloud Associate Cloud Engineer",
		Description: str("Deploy applications, monitor operations, and manage enterprise solutions on GCP."),
	},
}

var exams = []model.Exam{
	{
		ID: 1, CourseID: 1, DurationMinutes: 20, TotalQuestions: 5,
		Title:       "AWS Cloud Practitioner - Practice Exam 1",
		Description: str("Test your foundational AWS knowledge with practice questions covering cloud concepts, security, and core services."),
	},
	{
		ID: 2, CourseID: 1, DurationMinutes: 30, TotalQuestions: 5,
		Title:       "AWS Cloud Practitioner - Practice Exam 2",
		Description: str("Advanced practice questions covering AWS services, billing, and architecture best practices."),
	},
	{
		ID: 3, CourseID: 2, DurationMinutes: 45, TotalQuestions: 10,
		Title:       "AWS Solutions Architect - Practice Exam 1",
		Description: str("Test your skills in designing distributed systems and architectures on AWS."),
	},
}

type questionFixture struct {
	question model.Question
	answers  []model.Answer
}

// Only exam 1 carries questions; exams 2 and 3 stay empty and are rejected on submit.
var questions = []questionFixture{
	{
		question: model.Question{
			ID: 1, ExamID: 1,
			Content:     "What is the primary benefit of using AWS Cloud compared to on-premises infrastructure?",
			Explanation: str("AWS Cloud offers pay-as-you-go pricing, eliminating upfront capital expenses and allowing businesses to pay only for what they use."),
		},
		answers: []model.Answer{
			{ID: 1, Content: "Higher upfront costs"},
			{ID: 2, Content: "Pay-as-you-go pricing model", IsCorrect: true},
			{ID: 3, Content: "Limited scalability"},
			{ID: 4, Content: "Longer deployment times"},
		},
	},
	{
		question: model.Question{
			ID: 2, ExamID: 1,
			Content:     "Which AWS service is used for object storage?",
			Explanation: str("Amazon S3 (Simple Storage Service) is the primary object storage service in AWS, designed for storing and retrieving any amount of data."),
		},
		answers: []model.Answer{
			{ID: 5, Content: "Amazon EC2"},
			{ID: 6, Content: "Amazon S3", IsCorrect: true},
			{ID: 7, Content: "Amazon RDS"},
			{ID: 8, Content: "Amazon VPC"},
		},
	},
	{
		question: model.Question{
			ID: 3, ExamID: 1,
			Content:     "What does the AWS Shared Responsibility Model define?",
			Explanation: str("AWS is responsible for security OF the cloud (infrastructure), while customers are responsible for security IN the cloud (data, applications)."),
		},
		answers: []model.Answer{
			{ID: 9, Content: "AWS pricing structure"},
			{ID: 10, Content: "Division of security responsibilities between AWS and customers", IsCorrect: true},
			{ID: 11, Content: "How to share AWS resources between accounts"},
			{ID: 12, Content: "Network bandwidth allocation"},
		},
	},
	{
		question: model.Question{
			ID: 4, ExamID: 1,
			Content:     "Which AWS service provides a managed relational database?",
			Explanation: str("Amazon RDS (Relational Database Service) makes it easy to set up, operate, and scale relational databases in the cloud."),
		},
		answers: []model.Answer{
			{ID: 13, Content: "Amazon DynamoDB"},
			{ID: 14, Content: "Amazon RDS", IsCorrect: true},
			{ID: 15, Content: "Amazon S3"},
			{ID: 16, Content: "Amazon ElastiCache"},
		},
	},
	{
		question: model.Question{
			ID: 5, ExamID: 1,
			Content:     "What is an AWS Region?",
			Explanation: str("An AWS Region is a physical location where AWS clusters data centers. Each Region consists of multiple, isolated Availability Zones."),
		},
		answers: []model.Answer{
			{ID: 17, Content: "A single data center"},
			{ID: 18, Content: "A geographical area with multiple Availability Zones", IsCorrect: true},
			{ID: 19, Content: "A virtual private network"},
			{ID: 20, Content: "An AWS account boundary"},
		},
	},
}
